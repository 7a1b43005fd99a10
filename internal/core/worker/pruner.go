package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/glossary/internal/infra/storage"
)

// Pruner deletes old run records based on a retention period.
type Pruner struct {
	retention time.Duration
	runs      storage.RunRepository
	now       func() time.Time
}

// NewPruner creates a new Pruner. A non-positive retention disables it.
func NewPruner(retention time.Duration, runs storage.RunRepository) *Pruner {
	return &Pruner{
		retention: retention,
		runs:      runs,
		now:       time.Now,
	}
}

// Prune deletes runs started before now minus the retention period and
// returns how many were removed.
func (p *Pruner) Prune(ctx context.Context) int64 {
	if p.retention <= 0 {
		return 0
	}

	threshold := p.now().Add(-p.retention)
	n, err := p.runs.DeleteOlderThan(ctx, threshold)
	if err != nil {
		slog.Error("Failed to prune run history", "error", err)
		return 0
	}
	if n > 0 {
		slog.Info("Pruned run history", "deleted", n, "before", threshold.Format(time.RFC3339))
	}
	return n
}
