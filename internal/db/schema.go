package db

import "fmt"

// schemaStatements create the request queue table and its retrieval index.
// Every statement is IF NOT EXISTS so initialization is idempotent.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS request_queue (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		endpoint TEXT NOT NULL,
		method TEXT NOT NULL,
		body TEXT,
		headers TEXT,
		status TEXT NOT NULL DEFAULT 'PENDING' CHECK(status IN ('PENDING', 'FAILED')),
		created_at INTEGER NOT NULL,
		idempotency_key TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_request_queue_status_created
		ON request_queue(status, created_at);`,
}

// Initialize creates the request queue schema if absent.
// Safe to call any number of times.
func (db *DB) Initialize() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
