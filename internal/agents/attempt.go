package agents

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/yungbote/maiopinion/internal/platform/logger"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

const (
	StageDetection = "detection"
	StageDental    = "dental"
	StageChest     = "chest"
	StageGeneric   = "generic"
	StageReasoning = "reasoning"
	StageTreatment = "treatment"
	StageFollowUp  = "followup"

	OutcomeProvider = "provider"
	OutcomeFallback = "fallback"
)

// StageObserver receives one observation per stage call.
type StageObserver interface {
	ObserveStage(stage, outcome string, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveStage(string, string, time.Duration) {}

// Deps are shared by every agent. A nil LLM forces the fallback path.
type Deps struct {
	Log      *logger.Logger
	LLM      openai.Client
	Observer StageObserver
}

type base struct {
	name  string
	stage string
	log   *logger.Logger
	llm   openai.Client
	obs   StageObserver
}

func newBase(d Deps, name, stage string) base {
	log := d.Log
	if log == nil {
		log = logger.Nop()
	}
	obs := d.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	return base{
		name:  name,
		stage: stage,
		log:   log.With("agent", name),
		llm:   d.LLM,
		obs:   obs,
	}
}

func (b base) Name() string { return b.name }

// attempt runs call against the provider and returns fallback() on any
// failure: no client, transport error, malformed reply. It never returns an
// error to the caller.
func attempt[T any](ctx context.Context, b base, call func(context.Context, openai.Client) (T, error), fallback func() T) T {
	start := time.Now()
	if b.llm == nil {
		b.obs.ObserveStage(b.stage, OutcomeFallback, time.Since(start))
		return fallback()
	}
	v, err := call(ctx, b.llm)
	if err != nil {
		b.log.Warn("provider call failed, using fallback", "error", err)
		b.obs.ObserveStage(b.stage, OutcomeFallback, time.Since(start))
		return fallback()
	}
	b.obs.ObserveStage(b.stage, OutcomeProvider, time.Since(start))
	return v
}

// attemptWithImage is attempt guarded by an on-disk check of the image.
func attemptWithImage[T any](ctx context.Context, b base, imagePath string, call func(context.Context, openai.Client) (T, error), fallback func() T) T {
	if !imageExists(imagePath) {
		b.log.Warn("image not found, using fallback", "image", imagePath)
		b.obs.ObserveStage(b.stage, OutcomeFallback, 0)
		return fallback()
	}
	return attempt(ctx, b, call, fallback)
}

func askJSON(ctx context.Context, llm openai.Client, req openai.ChatRequest, out any) error {
	text, err := llm.Complete(ctx, req)
	if err != nil {
		return err
	}
	return openai.DecodeJSON(text, out)
}

func askText(ctx context.Context, llm openai.Client, req openai.ChatRequest) (string, error) {
	text, err := llm.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", openai.ErrEmptyResponse
	}
	return text, nil
}

func imageExists(path string) bool {
	if strings.TrimSpace(path) == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
