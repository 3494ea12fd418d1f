package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks github.com/lritter14/filing-rag/internal/storage RunStore

import (
	"context"
	"database/sql"
	"fmt"
)

// RunStore defines the interface for embedding run log operations.
type RunStore interface {
	// Insert records a completed embedBatch call. The record ID must be set.
	Insert(ctx context.Context, run *RunRecord) error
	// ListByFiling returns the most recent runs for one filing, newest first.
	ListByFiling(ctx context.Context, ticker, form, filed string, limit int) ([]*RunRecord, error)
	// ListRecent returns the most recent runs across all filings, newest first.
	ListRecent(ctx context.Context, limit int) ([]*RunRecord, error)
}

// RunRepo provides sqlite-backed run log operations. It implements RunStore.
type RunRepo struct {
	db *sql.DB
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// Insert records a completed embedBatch call.
func (r *RunRepo) Insert(ctx context.Context, run *RunRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO embed_runs (id, ticker, form, filed, section_filter, start_index, embedded, total, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Ticker, run.Form, run.Filed, run.SectionFilter,
		run.StartIndex, run.Embedded, run.Total, run.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// ListByFiling returns the most recent runs for one filing, newest first.
func (r *RunRepo) ListByFiling(ctx context.Context, ticker, form, filed string, limit int) ([]*RunRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ticker, form, filed, section_filter, start_index, embedded, total, duration_ms, created_at
		 FROM embed_runs WHERE ticker = ? AND form = ? AND filed = ?
		 ORDER BY created_at DESC LIMIT ?`,
		ticker, form, filed, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return scanRuns(rows)
}

// ListRecent returns the most recent runs across all filings, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]*RunRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, ticker, form, filed, section_filter, start_index, embedded, total, duration_ms, created_at
		 FROM embed_runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]*RunRecord, error) {
	defer func() {
		_ = rows.Close()
	}()

	var runs []*RunRecord
	for rows.Next() {
		var run RunRecord
		if err := rows.Scan(
			&run.ID, &run.Ticker, &run.Form, &run.Filed, &run.SectionFilter,
			&run.StartIndex, &run.Embedded, &run.Total, &run.DurationMs, &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return runs, nil
}
