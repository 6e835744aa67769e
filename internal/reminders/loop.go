package reminders

import (
	"context"
	"time"

	"github.com/yungbote/maiopinion/internal/platform/logger"
)

// Loop runs the scanner on a fixed interval under a scan lock.
type Loop struct {
	scanner  *Scanner
	lock     Lock
	interval time.Duration
	log      *logger.Logger
}

func NewLoop(s *Scanner, lock Lock, interval time.Duration, log *logger.Logger) *Loop {
	if lock == nil {
		lock = NopLock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Loop{scanner: s, lock: lock, interval: interval, log: log.With("component", "ReminderLoop")}
}

// Run blocks until ctx is done. A non-positive interval returns immediately.
func (l *Loop) Run(ctx context.Context) error {
	if l.interval <= 0 {
		return nil
	}
	l.log.Info("reminder loop started", "interval", l.interval.String())
	t := time.NewTicker(l.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("reminder loop stopped")
			return nil
		case <-t.C:
			l.Tick(ctx)
		}
	}
}

// Tick performs one locked scan and reports how many reminders went out.
func (l *Loop) Tick(ctx context.Context) int {
	release, ok, err := l.lock.Acquire(ctx)
	if err != nil {
		l.log.Warn("reminder lock unavailable", "error", err)
		return 0
	}
	if !ok {
		l.log.Debug("reminder scan held by another process")
		return 0
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			l.log.Warn("reminder lock release failed", "error", err)
		}
	}()

	n, err := l.scanner.Scan(ctx)
	if err != nil {
		l.log.Error("reminder scan failed", "error", err)
	}
	return n
}
