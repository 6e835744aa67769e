package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/yungbote/maiopinion/internal/domain"
	"github.com/yungbote/maiopinion/internal/platform/logger"
	"github.com/yungbote/maiopinion/internal/store"
)

type SentObserver interface {
	ObserveRemindersSent(n int)
}

type Scanner struct {
	store    store.PatientStore
	notifier Notifier
	log      *logger.Logger
	obs      SentObserver
	now      func() time.Time
}

type Option func(*Scanner)

func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

func WithObserver(obs SentObserver) Option {
	return func(s *Scanner) { s.obs = obs }
}

func NewScanner(st store.PatientStore, n Notifier, log *logger.Logger, opts ...Option) *Scanner {
	if log == nil {
		log = logger.Nop()
	}
	if n == nil {
		n = NewConsoleNotifier(nil)
	}
	s := &Scanner{
		store:    st,
		notifier: n,
		log:      log.With("component", "ReminderScanner"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan notifies every unsent row whose follow-up date is today or earlier,
// then marks the notified rows sent in one store write. It returns how many
// reminders were delivered.
func (s *Scanner) Scan(ctx context.Context) (int, error) {
	rows, err := s.store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load patients: %w", err)
	}
	today := s.now()

	var sent []string
	for _, p := range rows {
		if err := ctx.Err(); err != nil {
			break
		}
		due, err := p.Due(today)
		if err != nil {
			s.log.Warn("skipping row with bad follow-up date", "patient_id", p.ID, "error", err)
			continue
		}
		if !due {
			continue
		}
		if err := s.notifier.Notify(ctx, p); err != nil {
			s.log.Error("reminder delivery failed", "patient_id", p.ID, "error", err)
			continue
		}
		sent = append(sent, p.ID)
	}

	if len(sent) > 0 {
		// Rows already notified are persisted even if ctx was canceled mid-scan.
		if _, err := s.store.MarkSent(context.WithoutCancel(ctx), sent); err != nil {
			return 0, fmt.Errorf("mark reminders sent: %w", err)
		}
	}
	if s.obs != nil {
		s.obs.ObserveRemindersSent(len(sent))
	}
	s.log.Info("follow-up reminders sent", "count", len(sent))
	return len(sent), ctx.Err()
}

// Pending lists unsent rows, due or not.
func Pending(rows []domain.Patient) []domain.Patient {
	var out []domain.Patient
	for _, p := range rows {
		if !p.Sent() {
			out = append(out, p)
		}
	}
	return out
}
