// Package models provides data model definitions for the LunchLine core.
package models

import "database/sql"

// Request status values. A row is PENDING until replay either removes it
// (success) or quarantines it as FAILED; FAILED is terminal.
const (
	RequestStatusPending = "PENDING"
	RequestStatusFailed  = "FAILED"
)

// QueuedRequest represents one deferred mutation awaiting replay.
// Body and Headers hold JSON-serialized values; a SQL NULL means the
// original call carried no body / no extra headers.
type QueuedRequest struct {
	ID             int64          `db:"id" json:"id"`
	Endpoint       string         `db:"endpoint" json:"endpoint"`
	Method         string         `db:"method" json:"method"`
	Body           sql.NullString `db:"body" json:"body,omitempty"`
	Headers        sql.NullString `db:"headers" json:"headers,omitempty"`
	Status         string         `db:"status" json:"status"` // PENDING, FAILED
	CreatedAt      int64          `db:"created_at" json:"created_at"` // epoch millis
	IdempotencyKey string         `db:"idempotency_key" json:"idempotency_key"`
}

// TableName returns the table name for QueuedRequest.
func (QueuedRequest) TableName() string {
	return "request_queue"
}
