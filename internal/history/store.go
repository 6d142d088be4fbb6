// Package history is an audit log of completed bulk operations: one row
// per BulkRename/BulkRemove invocation, recording counts and outcome.
//
// It is explicitly not an undo log: no row carries enough information —
// old paths, content, permissions — to reverse an operation, and nothing
// in this module ever reads history back to drive behavior. It exists
// purely so an operator can answer "what bulk operations ran, and did
// they succeed" after the fact.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Record is one completed bulk operation.
type Record struct {
	ID           int64
	RunID        string
	Kind         string // "rename" or "remove"
	ItemCount    int
	SuccessCount int
	FailCount    int
	FirstError   string
	RanAt        time.Time
}

// Store manages the SQLite database backing the audit log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Insert records one completed bulk operation.
func (s *Store) Insert(ctx context.Context, r Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bulk_runs (run_id, kind, item_count, success_count, fail_count, first_error)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.RunID, r.Kind, r.ItemCount, r.SuccessCount, r.FailCount, r.FirstError)
	if err != nil {
		return fmt.Errorf("inserting history record: %w", err)
	}
	return nil
}

// Recent returns the limit most recent records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, kind, item_count, success_count, fail_count, first_error, ran_at
		FROM bulk_runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []Record
	for rows.Next() {
		var r Record
		var ranAt string
		if err := rows.Scan(&r.ID, &r.RunID, &r.Kind, &r.ItemCount, &r.SuccessCount, &r.FailCount, &r.FirstError, &ranAt); err != nil {
			return nil, fmt.Errorf("scanning history record: %w", err)
		}
		r.RanAt, err = parseTime(ranAt)
		if err != nil {
			return nil, fmt.Errorf("parsing ran_at: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bulk_runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			kind            TEXT NOT NULL,
			item_count      INTEGER NOT NULL,
			success_count   INTEGER NOT NULL,
			fail_count      INTEGER NOT NULL,
			first_error     TEXT NOT NULL DEFAULT '',
			ran_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bulk_runs_ran_at ON bulk_runs(id DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02 15:04:05"}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}
