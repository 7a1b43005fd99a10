package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/infra/storage"
)

// RunRepo keeps run records in process memory.
type RunRepo struct {
	runs map[string]*domain.Run
	mu   sync.RWMutex
}

func NewRunRepo() *RunRepo {
	return &RunRepo{
		runs: make(map[string]*domain.Run),
	}
}

func (r *RunRepo) Create(ctx context.Context, run *domain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *run
	r.runs[run.ID] = &cp
	return nil
}

func (r *RunRepo) Finish(ctx context.Context, run *domain.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[run.ID]; !ok {
		return storage.ErrRunNotFound
	}
	cp := *run
	r.runs[run.ID] = &cp
	return nil
}

func (r *RunRepo) Get(ctx context.Context, id string) (*domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, storage.ErrRunNotFound
	}
	cp := *run
	return &cp, nil
}

func (r *RunRepo) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Run, 0, len(r.runs))
	for _, run := range r.runs {
		cp := *run
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *RunRepo) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, run := range r.runs {
		if run.Status != domain.RunStatusRunning && run.StartedAt.Before(threshold) {
			delete(r.runs, id)
			n++
		}
	}
	return n, nil
}
