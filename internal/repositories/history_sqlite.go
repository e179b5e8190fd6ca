package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/shared"
)

// SQLiteHistoryStore implements [HistoryStore] on the history table.
//
// Each Save writes one batch numbered from history_sequence; Load orders by batch descending and position ascending,
// which gives the same newest-first order as the JSON file.
type SQLiteHistoryStore struct {
	db    *sql.DB
	runID string
}

// NewSQLiteHistoryStore creates a new SQLiteHistoryStore with the given (migrated) database connection
func NewSQLiteHistoryStore(db *sql.DB) *SQLiteHistoryStore {
	return &SQLiteHistoryStore{db: db}
}

var _ RunTagger = (*SQLiteHistoryStore)(nil)

// TagRun tags subsequently saved rows with the given run ID.
func (s *SQLiteHistoryStore) TagRun(runID string) {
	s.runID = runID
}

// Load returns every history record, newest batch first.
func (s *SQLiteHistoryStore) Load(ctx context.Context) ([]models.HistoryRecord, error) {
	query := `
		SELECT title, artist, url
		FROM history
		ORDER BY batch DESC, position ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query history: %v", shared.ErrHistory, err)
	}
	defer rows.Close()

	records := []models.HistoryRecord{}
	for rows.Next() {
		var r models.HistoryRecord
		if err := rows.Scan(&r.Title, &r.Artist, &r.URL); err != nil {
			return nil, fmt.Errorf("%w: failed to scan history row: %v", shared.ErrHistory, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating history rows: %v", shared.ErrHistory, err)
	}

	return records, nil
}

// Save inserts records as a new batch in a single transaction.
func (s *SQLiteHistoryStore) Save(ctx context.Context, records []models.HistoryRecord) error {
	batch := uniqueBatch(records)
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", shared.ErrHistory, err)
	}
	defer tx.Rollback()

	seq, err := NextSequence(tx, "history")
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrHistory, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO history (id, batch, position, run_id, title, artist, url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to prepare insert: %v", shared.ErrHistory, err)
	}
	defer stmt.Close()

	now := time.Now()
	for i, r := range batch {
		if _, err := stmt.ExecContext(ctx, shared.GenerateID(), seq, i, s.runID, r.Title, r.Artist, r.URL, now); err != nil {
			return fmt.Errorf("%w: failed to insert history row: %v", shared.ErrHistory, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit history batch: %v", shared.ErrHistory, err)
	}
	return nil
}

// Count returns the number of stored history rows.
func (s *SQLiteHistoryStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM history").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: failed to count history: %v", shared.ErrHistory, err)
	}
	return n, nil
}
