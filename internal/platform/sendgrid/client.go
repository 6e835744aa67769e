package sendgrid

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/maiopinion/internal/platform/ctxutil"
	"github.com/yungbote/maiopinion/internal/platform/httpx"
	"github.com/yungbote/maiopinion/internal/platform/logger"
)

const (
	DefaultBaseURL = "https://api.sendgrid.com"
	mailSendPath   = "/v3/mail/send"
	maxRetryWait   = 10 * time.Second
)

// Client delivers transactional mail through the SendGrid v3 API.
type Client interface {
	Send(ctx context.Context, msg Message) (*Result, error)
}

type Config struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	// Sandbox asks SendGrid to validate the request without delivering it.
	Sandbox    bool
	Timeout    time.Duration
	MaxRetries int
	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
}

type Result struct {
	StatusCode int
	MessageID  string
	Attempts   int
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		log = logger.Nop()
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.APIKey == "" {
		return nil, errors.New("sendgrid: missing SENDGRID_API_KEY")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	cfg.MaxRetries = max(cfg.MaxRetries, 0)
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &client{
		log:  log.With("client", "sendgrid"),
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *client) Send(ctx context.Context, msg Message) (*Result, error) {
	req, err := c.buildRequest(msg)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("sendgrid: encode request: %w", err)
	}
	return c.post(ctxutil.Default(ctx), body)
}

// post retries retryable failures with doubling, jittered backoff and
// honours Retry-After.
func (c *client) post(ctx context.Context, body []byte) (*Result, error) {
	wait := c.cfg.Backoff
	for attempt := 1; ; attempt++ {
		resp, err := c.postOnce(ctx, body)
		if err == nil {
			return &Result{
				StatusCode: resp.StatusCode,
				MessageID:  strings.TrimSpace(resp.Header.Get("X-Message-Id")),
				Attempts:   attempt,
			}, nil
		}
		if attempt > c.cfg.MaxRetries || !httpx.IsRetryableError(err) {
			return nil, err
		}
		pause := httpx.Jitter(httpx.RetryAfterDuration(resp, wait, maxRetryWait))
		c.log.Warn("mail send failed, retrying", "attempt", attempt, "wait", pause.String(), "error", err)
		if serr := httpx.Sleep(ctx, pause); serr != nil {
			return nil, errors.Join(err, serr)
		}
		wait *= 2
	}
}

func (c *client) postOnce(ctx context.Context, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+mailSendPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return resp, err
	}
	if resp.StatusCode/100 != 2 {
		return resp, newHTTPError(resp.StatusCode, raw)
	}
	return resp, nil
}
