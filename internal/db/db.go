// Package db provides database connection management for the LunchLine core.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// DB wraps the sql.DB with LunchLine-specific configuration.
type DB struct {
	*sql.DB
}

var (
	defaultDB   *DB
	defaultErr  error
	defaultOnce sync.Once
)

// Open opens the LunchLine SQLite database under dataDir.
// The database is opened with:
// - WAL mode for concurrent reads/writes
// - A busy timeout to ride out writer lock contention
// - Foreign key constraints enabled
// The request queue schema is created if absent, so Open is safe to call
// on every startup.
func Open(dataDir string) (*DB, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "lunchline.db")

	// Open database with modernc.org/sqlite (pure Go, no CGO)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite supports a single writer; serialize access through one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	wrapped := &DB{db}

	if err := wrapped.Initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return wrapped, nil
}

// Default returns the process-wide database handle, opening it on first use.
// Concurrent first calls converge on a single Open; every later call returns
// the memoized handle (or the memoized open error).
func Default(dataDir string) (*DB, error) {
	defaultOnce.Do(func() {
		defaultDB, defaultErr = Open(dataDir)
	})
	return defaultDB, defaultErr
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
