package storage

import (
	"context"
	"errors"
	"time"

	"github.com/vietddude/glossary/internal/core/domain"
)

var (
	// ErrRunNotFound is returned when a run record doesn't exist
	ErrRunNotFound = errors.New("run not found")
)

// RunRepository stores the audit trail of glossary runs.
type RunRepository interface {
	// Create records the start of a run
	Create(ctx context.Context, run *domain.Run) error

	// Finish stores the final status, document id, item count and error of a run
	Finish(ctx context.Context, run *domain.Run) error

	// Get retrieves a run by id
	Get(ctx context.Context, id string) (*domain.Run, error)

	// List returns the most recent runs, newest first
	List(ctx context.Context, limit int) ([]*domain.Run, error)

	// DeleteOlderThan removes finished runs started before threshold
	DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error)
}
