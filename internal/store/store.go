package store

import (
	"context"
	"errors"

	"github.com/yungbote/maiopinion/internal/domain"
)

var (
	ErrNotFound   = errors.New("patient not found")
	ErrNoDatabase = errors.New("no patient database found")
)

// PatientStore is the persistence boundary for follow-up registrations.
type PatientStore interface {
	Append(ctx context.Context, p domain.Patient) error
	All(ctx context.Context) ([]domain.Patient, error)
	Get(ctx context.Context, id string) (domain.Patient, error)
	// MarkSent flips email_sent to Yes for the given ids and reports how
	// many rows changed. Nothing is written when no row changes.
	MarkSent(ctx context.Context, ids []string) (int, error)
	// Clear removes every row.
	Clear(ctx context.Context) error
	Close() error
}
