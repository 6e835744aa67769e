package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yungbote/maiopinion/internal/platform/logger"
)

var (
	ErrNoProvider    = errors.New("openai: no provider configured")
	ErrEmptyResponse = errors.New("openai: empty response")
)

// ChatRequest is a single system+user exchange.
type ChatRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Client returns the trimmed text of the first choice.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Func adapts a function to Client.
type Func func(ctx context.Context, req ChatRequest) (string, error)

func (f Func) Complete(ctx context.Context, req ChatRequest) (string, error) { return f(ctx, req) }

type client struct {
	log   *logger.Logger
	api   *goopenai.Client
	model string
	kind  ProviderKind
}

// New builds a chat client for p. It returns ErrNoProvider when p is disabled.
func New(log *logger.Logger, p Provider) (Client, error) {
	if !p.Enabled() {
		return nil, ErrNoProvider
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	var cfg goopenai.ClientConfig
	switch p.Kind {
	case ProviderAzure:
		cfg = goopenai.DefaultAzureConfig(p.APIKey, p.BaseURL)
		cfg.APIVersion = p.APIVersion
		deployment := p.Model
		cfg.AzureModelMapperFunc = func(string) string { return deployment }
	default:
		cfg = goopenai.DefaultConfig(p.APIKey)
		if p.BaseURL != "" {
			cfg.BaseURL = strings.TrimRight(p.BaseURL, "/")
		}
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cfg.HTTPClient = &http.Client{Timeout: timeout}

	log.Info("LLM provider configured", "provider", string(p.Kind), "model", p.Model)
	return &client{
		log:   log.With("client", "OpenAIClient", "provider", string(p.Kind)),
		api:   goopenai.NewClientWithConfig(cfg),
		model: p.Model,
		kind:  p.Kind,
	}, nil
}

func (c *client) Complete(ctx context.Context, req ChatRequest) (string, error) {
	msgs := make([]goopenai.ChatCompletionMessage, 0, 2)
	if s := strings.TrimSpace(req.System); s != "" {
		msgs = append(msgs, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleSystem, Content: s})
	}
	msgs = append(msgs, goopenai.ChatCompletionMessage{Role: goopenai.ChatMessageRoleUser, Content: req.User})

	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", c.kind, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
