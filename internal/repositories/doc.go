// Package repositories implements persistence for the download history and run summaries.
//
// Key Implementations:
//   - [JSONHistoryStore] : a single JSON array file, rewritten atomically on every save
//   - [SQLiteHistoryStore] : a history table where each save is one numbered batch
//   - [RunRepository] : SQLite run summaries, one row per pipeline run
//
// Both history stores satisfy [HistoryStore] and return records newest-first.
// Neither enforces uniqueness across batches; that is the deduplicator's job at filter time.
package repositories
