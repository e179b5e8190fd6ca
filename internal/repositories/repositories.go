// package repositories provides persistence layer implementations for the history and run models.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/shared"
)

// HistoryStore persists the tracks selected by earlier runs.
type HistoryStore interface {
	// Load returns the history newest-first, initializing an empty store if none exists.
	Load(ctx context.Context) ([]models.HistoryRecord, error)

	// Save places records before the existing history and rewrites the store.
	Save(ctx context.Context, records []models.HistoryRecord) error
}

// RunTagger is implemented by stores that attribute saved records to a run.
type RunTagger interface {
	TagRun(runID string)
}

// Stores groups the persistence backends selected by the configuration.
type Stores struct {
	History HistoryStore
	Runs    *RunRepository // nil unless history is kept in SQLite
	db      *sql.DB
}

// Close releases the database handle, if any.
func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// OpenStores builds the [HistoryStore] selected by cfg.History.Driver.
//
// The sqlite driver opens and migrates cfg.Database and also records run summaries there.
func OpenStores(cfg *shared.Config) (*Stores, error) {
	switch cfg.History.Driver {
	case shared.DriverJSON:
		return &Stores{History: NewJSONHistoryStore(cfg.History.Path)}, nil
	case shared.DriverSQLite:
		db, err := shared.OpenDatabase(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrHistory, err)
		}
		return &Stores{
			History: NewSQLiteHistoryStore(db),
			Runs:    NewRunRepository(db),
			db:      db,
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown history driver %q", shared.ErrInvalidConfig, cfg.History.Driver)
	}
}

// NextSequence atomically increments and returns the next value of the table's sequence counter.
func NextSequence(tx *sql.Tx, table string) (int, error) {
	sequenceTable := table + "_sequence"

	if _, err := tx.Exec(fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1", sequenceTable)); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	if err := tx.QueryRow(fmt.Sprintf("SELECT value FROM %s WHERE id = 1", sequenceTable)).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	return sequence, nil
}

// uniqueBatch drops records whose key already appeared earlier in the same batch.
func uniqueBatch(records []models.HistoryRecord) []models.HistoryRecord {
	seen := make(map[models.TrackKey]struct{}, len(records))
	out := make([]models.HistoryRecord, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.Key()]; dup {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r)
	}
	return out
}
