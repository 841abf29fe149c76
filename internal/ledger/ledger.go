// Package ledger persists per-file processing outcomes in SQLite so that
// re-runs skip already exported granules and batch history stays
// queryable.
package ledger

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/skyglowlab/skyglow/internal/preprocess"
)

// Ledger is a SQLite-backed record of processed granules. Use ":memory:"
// for tests.
type Ledger struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (and if needed initializes) the ledger database.
func Open(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}
	l := &Ledger{db: db}
	if err := l.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize ledger schema: %w", err)
	}
	return l, nil
}

func (l *Ledger) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		input TEXT NOT NULL,
		output TEXT,
		state TEXT NOT NULL,
		error TEXT,
		duration_ms INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_files_input ON files(input);
	CREATE INDEX IF NOT EXISTS idx_files_run ON files(run_id);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Record stores one terminal per-file result.
func (l *Ledger) Record(runID string, res preprocess.Result) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var errText string
	if res.Err != nil {
		errText = res.Err.Error()
	}
	_, err := l.db.Exec(
		"INSERT INTO files (run_id, input, output, state, error, duration_ms, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		runID, filepath.Base(res.Input), res.Output, string(res.State), errText,
		res.Duration.Milliseconds(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// AlreadyExported reports whether the granule has a successful export on
// record. Matching is by basename so relocated input directories still
// skip.
func (l *Ledger) AlreadyExported(inputPath string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var n int
	err := l.db.QueryRow(
		"SELECT COUNT(1) FROM files WHERE input = ? AND state = ?",
		filepath.Base(inputPath), string(preprocess.StateExported),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query ledger: %w", err)
	}
	return n > 0, nil
}

// RunCounts returns exported/failed counts for a run.
func (l *Ledger) RunCounts(runID string) (exported, failed int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.Query(
		"SELECT state, COUNT(1) FROM files WHERE run_id = ? GROUP BY state", runID)
	if err != nil {
		return 0, 0, fmt.Errorf("query run counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return 0, 0, err
		}
		switch preprocess.State(state) {
		case preprocess.StateExported:
			exported = n
		case preprocess.StateFailed:
			failed = n
		}
	}
	return exported, failed, rows.Err()
}

// Close closes the underlying database.
func (l *Ledger) Close() error { return l.db.Close() }
