// Package history records build invocations in a small SQLite database so
// `sphinxkit history` can answer "what built, when, and how did it go"
// without any daemon or server involved.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one build invocation.
type Record struct {
	ID        string
	Project   string
	Mode      string
	Outcome   string
	Output    string
	Duration  time.Duration
	StartedAt time.Time
}

// Store persists build records in SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the history database at dbPath.
// Use ":memory:" for tests.
func Open(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		project TEXT NOT NULL,
		mode TEXT NOT NULL,
		outcome TEXT NOT NULL,
		output TEXT,
		duration_ms INTEGER NOT NULL,
		started_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_started_at ON builds(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append records one build. The record's ID is assigned here.
func (s *Store) Append(ctx context.Context, rec Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, project, mode, outcome, output, duration_ms, started_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, rec.Project, rec.Mode, rec.Outcome, rec.Output,
		rec.Duration.Milliseconds(), rec.StartedAt.Unix(),
	)
	if err != nil {
		return "", fmt.Errorf("insert build record: %w", err)
	}
	return id, nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, project, mode, outcome, output, duration_ms, started_at FROM builds ORDER BY started_at DESC, id LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			durationMS int64
			startedAt  int64
		)
		if err := rows.Scan(&rec.ID, &rec.Project, &rec.Mode, &rec.Outcome, &rec.Output, &durationMS, &startedAt); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.StartedAt = time.Unix(startedAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}
