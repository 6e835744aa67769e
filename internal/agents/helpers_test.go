package agents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/openai"
)

type observation struct {
	stage   string
	outcome string
}

type recorder struct {
	mu   sync.Mutex
	seen []observation
}

func (r *recorder) ObserveStage(stage, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, observation{stage, outcome})
}

func (r *recorder) last() observation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return observation{}
	}
	return r.seen[len(r.seen)-1]
}

// reply returns a client that always answers text.
func reply(text string) openai.Client {
	return openai.Func(func(context.Context, openai.ChatRequest) (string, error) { return text, nil })
}

func failing() openai.Client {
	return openai.Func(func(context.Context, openai.ChatRequest) (string, error) {
		return "", errors.New("connection refused")
	})
}

// capture records the last request and answers text.
func capture(text string, got *openai.ChatRequest) openai.Client {
	return openai.Func(func(_ context.Context, req openai.ChatRequest) (string, error) {
		*got = req
		return text, nil
	})
}

func tempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG"), 0o600))
	return path
}

type memWriter struct {
	rows []domain.Patient
	err  error
}

func (m *memWriter) Append(_ context.Context, p domain.Patient) error {
	if m.err != nil {
		return m.err
	}
	m.rows = append(m.rows, p)
	return nil
}
