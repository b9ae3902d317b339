package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Row is one stored artifact.
type Row struct {
	ID   int64
	Data string
}

type sqlConfig struct {
	busyTimeout int
	mkdirAll    bool
}

func defaultSQLConfig() sqlConfig {
	return sqlConfig{busyTimeout: 10_000}
}

// SQLOption customises OpenSQL.
type SQLOption func(*sqlConfig)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 10000.
func WithBusyTimeout(ms int) SQLOption { return func(c *sqlConfig) { c.busyTimeout = ms } }

// WithMkdirAll creates parent directories of the database path before opening.
func WithMkdirAll() SQLOption { return func(c *sqlConfig) { c.mkdirAll = true } }

// SQLStorage stores artifacts in a SQLite database, one table per kind,
// each row holding one serialized artifact.
//
// A SQLStorage is the only writer of its database: the pool holds a single
// connection and calls are serialized. It is safe for concurrent use.
type SQLStorage struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	closed bool
}

// OpenSQL opens or creates the SQLite database at path.
func OpenSQL(path string, opts ...SQLOption) (*SQLStorage, error) {
	cfg := defaultSQLConfig()
	for _, o := range opts {
		o(&cfg)
	}

	if cfg.mkdirAll {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("storage: mkdir %s: %w", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: %s: %w", p, err)
		}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: ping %s: %w", path, err)
	}

	return &SQLStorage{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLStorage) Path() string { return s.path }

// Store appends data to the table for kind, creating the table if needed.
// Strings are stored as-is, byte slices as text, and any other value as
// JSON.
func (s *SQLStorage) Store(ctx context.Context, kind string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStorageClosed
	}

	ident, err := Identifier(kind)
	if err != nil {
		return err
	}
	text, err := serialize(data)
	if err != nil {
		return err
	}

	create := `CREATE TABLE IF NOT EXISTS "` + ident + `" (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		data TEXT
	)`
	if _, err := s.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("storage: create %s: %w", ident, err)
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO "`+ident+`" (data) VALUES (?)`, text); err != nil {
		return fmt.Errorf("storage: insert into %s: %w", ident, err)
	}
	return nil
}

// RetrieveAll returns every row of the table for kind in insertion order.
// A table that does not exist yet has no rows.
func (s *SQLStorage) RetrieveAll(ctx context.Context, kind string) ([]Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStorageClosed
	}

	ident, err := Identifier(kind)
	if err != nil {
		return nil, err
	}

	exists, err := s.tableExists(ctx, ident)
	if err != nil || !exists {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, data FROM "`+ident+`" ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("storage: select from %s: %w", ident, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var data sql.NullString
		if err := rows.Scan(&r.ID, &data); err != nil {
			return nil, fmt.Errorf("storage: scan %s: %w", ident, err)
		}
		r.Data = data.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// RetrieveByID returns the row with the given id, or nil if there is none.
func (s *SQLStorage) RetrieveByID(ctx context.Context, kind string, id int64) (*Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStorageClosed
	}

	ident, err := Identifier(kind)
	if err != nil {
		return nil, err
	}

	exists, err := s.tableExists(ctx, ident)
	if err != nil || !exists {
		return nil, err
	}

	var r Row
	var data sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT id, data FROM "`+ident+`" WHERE id = ?`, id).Scan(&r.ID, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: select from %s: %w", ident, err)
	}
	r.Data = data.String
	return &r, nil
}

// Close closes the database. Later calls fail with ErrStorageClosed;
// closing twice is not an error.
func (s *SQLStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SQLStorage) tableExists(ctx context.Context, ident string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, ident).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("storage: lookup %s: %w", ident, err)
	}
	return n > 0, nil
}

func serialize(data any) (string, error) {
	switch v := data.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("storage: encode %T: %w", data, err)
	}
	return string(b), nil
}
