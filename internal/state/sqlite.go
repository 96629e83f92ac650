package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultSQLiteFile is the database filename inside the data directory.
const DefaultSQLiteFile = "state.db"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const (
	metaLastProcessed  = "last_processed"
	metaManuallyMarked = "manually_marked_count"
	metaCreatedAt      = "created_at"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQLiteStore keeps the seen-state in SQLite.
//
// Update opens its transaction with a write, so SQLite takes the database
// write lock before the document is read. Concurrent updaters, including
// other processes, queue behind busy_timeout instead of clobbering each
// other.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (creating if needed) the database at path and
// runs migrations.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("state: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("state: open database: %w", err)
	}
	// Pragmas are per connection; a single connection keeps busy_timeout
	// in force for every statement.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("state: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("state: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS seen_events (
			event_id TEXT PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS state_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the current document.
func (s *SQLiteStore) Load(ctx context.Context) (*State, error) {
	return loadFrom(ctx, s.db)
}

// Save replaces the stored document with st.
func (s *SQLiteStore) Save(ctx context.Context, st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("state: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := replaceIn(ctx, tx, st); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	return nil
}

// Update runs fn inside a single write transaction.
func (s *SQLiteStore) Update(ctx context.Context, fn func(st *State) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("state: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Writing first promotes the transaction to a write transaction before
	// anything is read.
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO state_meta (key, value) VALUES (?, ?)`,
		metaCreatedAt, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("state: lock: %w", err)
	}

	st, err := loadFrom(ctx, tx)
	if err != nil {
		return err
	}
	changed, err := fn(st)
	if err != nil {
		return err
	}
	if changed {
		if err := replaceIn(ctx, tx, st); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("state: commit: %w", err)
	}
	return nil
}

func loadFrom(ctx context.Context, q queryer) (*State, error) {
	st := New()

	rows, err := q.QueryContext(ctx, `SELECT event_id FROM seen_events`)
	if err != nil {
		return nil, fmt.Errorf("state: query seen events: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("state: scan seen event: %w", err)
		}
		st.Add(id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("state: iterate seen events: %w", err)
	}
	_ = rows.Close()

	meta, err := q.QueryContext(ctx,
		`SELECT key, value FROM state_meta WHERE key IN (?, ?)`,
		metaLastProcessed, metaManuallyMarked,
	)
	if err != nil {
		return nil, fmt.Errorf("state: query meta: %w", err)
	}
	defer func() { _ = meta.Close() }()

	for meta.Next() {
		var key, value string
		if err := meta.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("state: scan meta: %w", err)
		}
		switch key {
		case metaLastProcessed:
			st.LastProcessed = value
		case metaManuallyMarked:
			n, _ := strconv.Atoi(value)
			st.ManuallyMarkedCount = n
		}
	}
	return st, meta.Err()
}

func replaceIn(ctx context.Context, db execer, st *State) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM seen_events`); err != nil {
		return fmt.Errorf("state: clear seen events: %w", err)
	}
	for _, id := range st.IDs() {
		if _, err := db.ExecContext(ctx, `INSERT INTO seen_events (event_id) VALUES (?)`, id); err != nil {
			return fmt.Errorf("state: insert seen event: %w", err)
		}
	}

	if _, err := db.ExecContext(ctx,
		`DELETE FROM state_meta WHERE key IN (?, ?)`,
		metaLastProcessed, metaManuallyMarked,
	); err != nil {
		return fmt.Errorf("state: clear meta: %w", err)
	}
	if st.LastProcessed != "" {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO state_meta (key, value) VALUES (?, ?)`,
			metaLastProcessed, st.LastProcessed,
		); err != nil {
			return fmt.Errorf("state: write last_processed: %w", err)
		}
	}
	if st.ManuallyMarkedCount > 0 {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO state_meta (key, value) VALUES (?, ?)`,
			metaManuallyMarked, strconv.Itoa(st.ManuallyMarkedCount),
		); err != nil {
			return fmt.Errorf("state: write manually_marked_count: %w", err)
		}
	}
	return nil
}
