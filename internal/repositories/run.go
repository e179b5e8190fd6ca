package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RunSummary is the persisted outcome of a single pipeline run.
type RunSummary struct {
	ID         string
	GenreID    int
	Fetched    int
	Selected   int
	Downloaded int
	Unresolved int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// RunRepository stores [RunSummary] rows in the runs table.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a run summary.
func (r *RunRepository) Create(ctx context.Context, run RunSummary) error {
	if run.ID == "" {
		return fmt.Errorf("run ID is required")
	}

	query := `
		INSERT INTO runs (id, genre_id, fetched, selected, downloaded, unresolved, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID,
		run.GenreID,
		run.Fetched,
		run.Selected,
		run.Downloaded,
		run.Unresolved,
		run.Failed,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// List returns the most recent runs first, at most limit rows (all rows when limit <= 0).
func (r *RunRepository) List(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
		SELECT id, genre_id, fetched, selected, downloaded, unresolved, failed, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var run RunSummary
		if err := rows.Scan(
			&run.ID,
			&run.GenreID,
			&run.Fetched,
			&run.Selected,
			&run.Downloaded,
			&run.Unresolved,
			&run.Failed,
			&run.StartedAt,
			&run.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}
