package app

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/maiopinion/internal/agents"
	"github.com/yungbote/maiopinion/internal/observability"
	"github.com/yungbote/maiopinion/internal/pipeline"
	"github.com/yungbote/maiopinion/internal/platform/logger"
	"github.com/yungbote/maiopinion/internal/platform/openai"
	"github.com/yungbote/maiopinion/internal/platform/sendgrid"
	"github.com/yungbote/maiopinion/internal/reminders"
	"github.com/yungbote/maiopinion/internal/store"
)

type App struct {
	Cfg          Config
	Log          *logger.Logger
	Store        store.PatientStore
	Metrics      *observability.Metrics
	Provider     openai.Provider
	Orchestrator *pipeline.Orchestrator
	Scanner      *reminders.Scanner

	redis *goredis.Client
}

// New wires every component from cfg. The provider is resolved here once
// and shared by all agents.
func New(cfg Config, log *logger.Logger) (*App, error) {
	if log == nil {
		var err error
		if log, err = logger.New(cfg.LogMode); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	st, err := store.Open(cfg.StoreOptions(), log)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}

	provider := openai.ResolveProvider(cfg.ProviderEnv())
	llm, err := openai.New(log, provider)
	switch {
	case errors.Is(err, openai.ErrNoProvider):
		log.Info("no language model configured; every stage uses its fallback table")
		llm = nil
	case err != nil:
		_ = st.Close()
		return nil, fmt.Errorf("init llm client: %w", err)
	default:
		log.Info("language model configured", "provider", string(provider.Kind), "model", provider.Model)
	}

	metrics := observability.NewMetrics()
	deps := agents.Deps{Log: log, LLM: llm, Observer: metrics}
	orch := pipeline.New(pipeline.NewStages(deps, st), log)

	notifier, err := newNotifier(cfg, log)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	scanner := reminders.NewScanner(st, notifier, log, reminders.WithObserver(metrics))

	return &App{
		Cfg:          cfg,
		Log:          log,
		Store:        st,
		Metrics:      metrics,
		Provider:     provider,
		Orchestrator: orch,
		Scanner:      scanner,
	}, nil
}

func newNotifier(cfg Config, log *logger.Logger) (reminders.Notifier, error) {
	if cfg.SendGridAPIKey == "" {
		return reminders.NewConsoleNotifier(nil), nil
	}
	client, err := sendgrid.New(log, sendgrid.Config{
		APIKey:     cfg.SendGridAPIKey,
		BaseURL:    cfg.SendGridBaseURL,
		FromEmail:  cfg.SendGridFromEmail,
		FromName:   cfg.SendGridFromName,
		Sandbox:    cfg.SendGridSandbox,
		MaxRetries: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("init sendgrid: %w", err)
	}
	log.Info("reminders delivered through SendGrid")
	return reminders.NewSendGridNotifier(client), nil
}

// ScanLock returns a redis lock when REDIS_ADDR is set, otherwise a no-op.
func (a *App) ScanLock(ctx context.Context) (reminders.Lock, error) {
	if a.Cfg.RedisAddr == "" {
		return reminders.NopLock{}, nil
	}
	if a.redis == nil {
		rdb, err := reminders.DialRedis(ctx, a.Cfg.RedisAddr, a.Cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
	}
	return reminders.NewRedisLock(a.redis, reminders.DefaultLockKey, a.Cfg.ReminderLockTTL), nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("store close failed", "error", err)
		}
	}
	a.Log.Sync()
}
