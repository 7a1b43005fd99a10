package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vietddude/glossary/internal/core/domain"
	"github.com/vietddude/glossary/internal/infra/storage"
)

const runColumns = `id, root_folder, title, document_id, item_count, status, error_msg, started_at, finished_at`

// RunRepo implements storage.RunRepository using PostgreSQL.
type RunRepo struct {
	db *DB
}

// NewRunRepo creates a new PostgreSQL run repository.
func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Create inserts a new run record.
func (r *RunRepo) Create(ctx context.Context, run *domain.Run) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO glossary_runs (`+runColumns+`)
		VALUES (:id, :root_folder, :title, :document_id, :item_count, :status, :error_msg, :started_at, :finished_at)`,
		run)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// Finish updates the outcome columns of a run.
func (r *RunRepo) Finish(ctx context.Context, run *domain.Run) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE glossary_runs
		SET document_id = :document_id,
		    item_count = :item_count,
		    status = :status,
		    error_msg = :error_msg,
		    finished_at = :finished_at
		WHERE id = :id`,
		run)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n == 0 {
		return storage.ErrRunNotFound
	}
	return nil
}

// Get retrieves a run by id.
func (r *RunRepo) Get(ctx context.Context, id string) (*domain.Run, error) {
	var run domain.Run
	err := r.db.GetContext(ctx, &run, `SELECT `+runColumns+` FROM glossary_runs WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// List returns the newest runs first.
func (r *RunRepo) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []*domain.Run
	err := r.db.SelectContext(ctx, &runs,
		`SELECT `+runColumns+` FROM glossary_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// DeleteOlderThan removes finished runs started before threshold.
func (r *RunRepo) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM glossary_runs WHERE started_at < $1 AND status <> $2`,
		threshold, domain.RunStatusRunning)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return res.RowsAffected()
}
