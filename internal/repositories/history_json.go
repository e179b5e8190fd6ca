package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/desertthunder/musicarr/internal/models"
	"github.com/desertthunder/musicarr/internal/shared"
	"github.com/google/renameio/v2"
)

// JSONHistoryStore keeps the history as a JSON array of {title, artist, url} objects, newest-first.
//
// Writes go through a temporary file renamed into place, so a crash mid-write leaves the previous file intact.
type JSONHistoryStore struct {
	path string
}

// NewJSONHistoryStore creates a store backed by the file at path
func NewJSONHistoryStore(path string) *JSONHistoryStore {
	return &JSONHistoryStore{path: path}
}

// Load reads the history file. A missing file is created as an empty array.
func (s *JSONHistoryStore) Load(ctx context.Context) ([]models.HistoryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write(nil); err != nil {
			return nil, err
		}
		return []models.HistoryRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %v", shared.ErrHistory, s.path, err)
	}

	if isEmptyObject(data) {
		return []models.HistoryRecord{}, nil
	}

	records := []models.HistoryRecord{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", shared.ErrHistory, s.path, err)
	}

	return records, nil
}

// Save prepends records to the stored history and rewrites the file.
func (s *JSONHistoryStore) Save(ctx context.Context, records []models.HistoryRecord) error {
	existing, err := s.Load(ctx)
	if err != nil {
		return err
	}

	batch := uniqueBatch(records)
	merged := make([]models.HistoryRecord, 0, len(batch)+len(existing))
	merged = append(merged, batch...)
	merged = append(merged, existing...)

	return s.write(merged)
}

func (s *JSONHistoryStore) write(records []models.HistoryRecord) error {
	if records == nil {
		records = []models.HistoryRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to encode history: %v", shared.ErrHistory, err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("%w: failed to create history directory: %v", shared.ErrHistory, err)
		}
	}

	if err := renameio.WriteFile(s.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", shared.ErrHistory, s.path, err)
	}
	return nil
}

// isEmptyObject reports whether data is "{}", the empty history written by older tooling.
func isEmptyObject(data []byte) bool {
	var obj map[string]json.RawMessage
	return json.Unmarshal(data, &obj) == nil && len(obj) == 0
}
