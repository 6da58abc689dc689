// Package queue provides the durable offline mutation queue.
// Mutations that cannot reach the backend are written to the request_queue
// table and replayed in enqueue order once connectivity returns.
package queue

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/lunchline/core/internal/models"
)

// Store provides row-level operations on the request_queue table.
// Only the Manager writes through it; the CLI reads through it for
// inspection.
type Store struct {
	db *sql.DB

	// Prepared statement cache for the hot-path queries.
	// Statements are prepared on first use and reused afterwards.
	stmtCache sync.Map // map[string]*sql.Stmt
}

// NewStore creates a Store over an initialized database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// prepareStmt gets or creates a prepared statement from the cache.
func (s *Store) prepareStmt(query string) (*sql.Stmt, error) {
	if stmt, ok := s.stmtCache.Load(query); ok {
		return stmt.(*sql.Stmt), nil
	}

	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}

	actual, loaded := s.stmtCache.LoadOrStore(query, stmt)
	if loaded {
		// Another goroutine already prepared this one; drop the duplicate.
		stmt.Close()
		return actual.(*sql.Stmt), nil
	}

	return stmt, nil
}

// Close closes all cached prepared statements.
func (s *Store) Close() error {
	var firstErr error
	s.stmtCache.Range(func(key, value interface{}) bool {
		stmt := value.(*sql.Stmt)
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}

// Insert appends one PENDING row and returns its assigned id.
func (s *Store) Insert(ctx context.Context, rec *models.QueuedRequest) (int64, error) {
	stmt, err := s.prepareStmt(`
		INSERT INTO request_queue (endpoint, method, body, headers, status, created_at, idempotency_key)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}

	res, err := stmt.ExecContext(ctx,
		rec.Endpoint, rec.Method, rec.Body, rec.Headers,
		models.RequestStatusPending, rec.CreatedAt, rec.IdempotencyKey)
	if err != nil {
		return 0, fmt.Errorf("failed to insert queued request: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	rec.ID = id
	rec.Status = models.RequestStatusPending
	return id, nil
}

// ListPending returns all PENDING rows in ascending enqueue order.
func (s *Store) ListPending(ctx context.Context) ([]*models.QueuedRequest, error) {
	return s.listByStatus(ctx, models.RequestStatusPending)
}

// ListFailed returns quarantined rows for inspection, oldest first.
func (s *Store) ListFailed(ctx context.Context) ([]*models.QueuedRequest, error) {
	return s.listByStatus(ctx, models.RequestStatusFailed)
}

func (s *Store) listByStatus(ctx context.Context, status string) ([]*models.QueuedRequest, error) {
	stmt, err := s.prepareStmt(`
		SELECT id, endpoint, method, body, headers, status, created_at, idempotency_key
		FROM request_queue
		WHERE status = ?
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s requests: %w", status, err)
	}
	defer rows.Close()

	var requests []*models.QueuedRequest
	for rows.Next() {
		var r models.QueuedRequest
		if err := rows.Scan(&r.ID, &r.Endpoint, &r.Method, &r.Body, &r.Headers,
			&r.Status, &r.CreatedAt, &r.IdempotencyKey); err != nil {
			return nil, fmt.Errorf("failed to scan queued request: %w", err)
		}
		requests = append(requests, &r)
	}
	return requests, rows.Err()
}

// MarkFailed transitions a row to FAILED. The row stays queryable for
// diagnostics but is excluded from future ListPending results. The
// transition is one-way.
func (s *Store) MarkFailed(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt(`
		UPDATE request_queue SET status = ? WHERE id = ? AND status = ?`)
	if err != nil {
		return err
	}

	res, err := stmt.ExecContext(ctx, models.RequestStatusFailed, id, models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark request %d failed: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("request %d not found or not pending", id)
	}
	return nil
}

// Remove permanently deletes a row. This is the success path after a
// confirmed replay.
func (s *Store) Remove(ctx context.Context, id int64) error {
	stmt, err := s.prepareStmt(`DELETE FROM request_queue WHERE id = ?`)
	if err != nil {
		return err
	}

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to remove request %d: %w", id, err)
	}
	return nil
}

// Counts returns the number of rows per status.
func (s *Store) Counts(ctx context.Context) (pending, failed int, err error) {
	stmt, err := s.prepareStmt(`SELECT status, COUNT(*) FROM request_queue GROUP BY status`)
	if err != nil {
		return 0, 0, err
	}

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count queued requests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return 0, 0, err
		}
		switch status {
		case models.RequestStatusPending:
			pending = count
		case models.RequestStatusFailed:
			failed = count
		}
	}
	return pending, failed, rows.Err()
}
