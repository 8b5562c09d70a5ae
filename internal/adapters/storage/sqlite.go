// Package storage provides implementations of ports.KeyValueStore:
// a SQLite table (the default), a TOML file and a plain in-memory map.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/tomato/internal/ports"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements ports.KeyValueStore using a SQLite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Ensure SQLiteStore implements ports.KeyValueStore.
var _ ports.KeyValueStore = (*SQLiteStore)(nil)

// NewSQLite opens (and migrates) the preference database at dbPath.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and
	// serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 2000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &SQLiteStore{db: db, path: dbPath}
	if err := store.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// NewMemory creates a new in-memory SQLite store for testing.
func NewMemory() (*SQLiteStore, error) {
	return NewSQLite(":memory:")
}

// Migrate creates the database schema.
func (s *SQLiteStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Get returns the value stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read preference %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	query := `
	INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save preference %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete preference %s: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in ascending order.
func (s *SQLiteStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM preferences ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan preference key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Path returns the database file, or "" for in-memory databases.
func (s *SQLiteStore) Path() string {
	if s.path == ":memory:" {
		return ""
	}
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
