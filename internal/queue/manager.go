package queue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/lunchline/core/internal/api"
	apperrors "github.com/lunchline/core/internal/errors"
	"github.com/lunchline/core/internal/logging"
	"github.com/lunchline/core/internal/models"
	"github.com/lunchline/core/internal/uuid"
)

// Request is one replayable mutation handed to the executor.
type Request struct {
	Endpoint string
	Method   string
	Body     any
	Headers  map[string]string
}

// ExecuteFunc performs a single network request. It must return a
// classifiable error (see the api package) on failure: a network-kind
// error when the server was unreachable, an HTTP-kind error carrying the
// status when the server answered non-2xx.
type ExecuteFunc func(ctx context.Context, req Request) error

// ProcessResult summarizes one replay pass.
type ProcessResult struct {
	Sent        int  `json:"sent"`        // rows delivered and removed
	Quarantined int  `json:"quarantined"` // rows marked FAILED (client errors)
	Deferred    int  `json:"deferred"`    // rows left PENDING for a later pass
	Stopped     bool `json:"stopped"`     // pass ended early on a network error
}

// Manager owns the enqueue and replay protocol for the offline queue.
type Manager struct {
	store   *Store
	execute ExecuteFunc

	// flight is the single-flight guard for ProcessQueue: concurrent
	// callers attach to the in-progress pass and share its result.
	flight singleflight.Group
}

// NewManager creates a queue Manager.
func NewManager(store *Store, execute ExecuteFunc) *Manager {
	return &Manager{
		store:   store,
		execute: execute,
	}
}

// Store exposes the underlying store for inspection callers.
func (m *Manager) Store() *Store {
	return m.store
}

// Enqueue durably records one mutation for later replay. It never contacts
// the network. body and headers may be nil; nil is stored as SQL NULL, not
// as a serialized "null". The method is normalized to uppercase.
func (m *Manager) Enqueue(ctx context.Context, endpoint, method string, body any, headers map[string]string) error {
	if endpoint == "" {
		return apperrors.New(apperrors.ErrInvalid, "endpoint must not be empty")
	}

	rec := &models.QueuedRequest{
		Endpoint:       endpoint,
		Method:         strings.ToUpper(method),
		CreatedAt:      time.Now().UnixMilli(),
		IdempotencyKey: uuid.New(),
	}

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrQueueEnqueue, "failed to serialize body", err)
		}
		rec.Body.String = string(data)
		rec.Body.Valid = true
	}

	if len(headers) > 0 {
		data, err := json.Marshal(headers)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrQueueEnqueue, "failed to serialize headers", err)
		}
		rec.Headers.String = string(data)
		rec.Headers.Valid = true
	}

	id, err := m.store.Insert(ctx, rec)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrQueueEnqueue, "durable write failed", err)
	}

	logging.Info("queued offline mutation", map[string]interface{}{
		"id":       id,
		"endpoint": rec.Endpoint,
		"method":   rec.Method,
	})
	return nil
}

// ProcessQueue replays all pending rows in enqueue order.
//
// At most one pass runs at a time: a call made while a pass is in flight
// waits for that pass and receives its result instead of starting a
// second one, so no row is ever delivered twice by overlapping triggers.
//
// Per-row failures never propagate. A client error (4xx) quarantines the
// row and the pass continues; a network error stops the pass with
// everything after the blocked row still PENDING; a server error or any
// other failure leaves the row PENDING and the pass continues. A failed
// pending-list read is logged and yields an empty result.
func (m *Manager) ProcessQueue(ctx context.Context) ProcessResult {
	v, _, _ := m.flight.Do("process", func() (interface{}, error) {
		return m.runPass(ctx), nil
	})
	return v.(ProcessResult)
}

// runPass is the body of one replay pass.
func (m *Manager) runPass(ctx context.Context) ProcessResult {
	var result ProcessResult

	pending, err := m.store.ListPending(ctx)
	if err != nil {
		logging.Error("failed to read pending queue, skipping pass",
			apperrors.Wrap(apperrors.ErrStoreUnavailable, "pending list read failed", err))
		return result
	}

	for _, row := range pending {
		err := m.execute(ctx, m.buildRequest(row))
		switch {
		case err == nil:
			if rerr := m.store.Remove(ctx, row.ID); rerr != nil {
				// The mutation was delivered; at worst the row is replayed
				// once more, which the idempotency key absorbs.
				logging.Error("failed to remove delivered request", rerr,
					map[string]interface{}{"id": row.ID})
			}
			result.Sent++

		case api.IsClientError(err):
			// Permanently unfulfillable as stored. Quarantine it so later
			// rows are not stalled behind it.
			if ferr := m.store.MarkFailed(ctx, row.ID); ferr != nil {
				logging.Error("failed to quarantine request", ferr,
					map[string]interface{}{"id": row.ID})
			}
			logging.Warn("quarantined unfulfillable request", map[string]interface{}{
				"id":     row.ID,
				"status": api.StatusCode(err),
			})
			result.Quarantined++

		case api.IsNetworkError(err):
			// The network is down; every remaining row would fail the same
			// way. Stop now so nothing later overtakes this row.
			logging.Info("network unreachable, stopping replay pass", map[string]interface{}{
				"id":        row.ID,
				"remaining": len(pending) - result.Sent - result.Quarantined - result.Deferred,
			})
			result.Stopped = true
			return result

		default:
			// Transient server-side failure; retry on a later pass.
			logging.Warn("deferred request after transient failure", map[string]interface{}{
				"id":     row.ID,
				"status": api.StatusCode(err),
				"error":  err.Error(),
			})
			result.Deferred++
		}
	}

	return result
}

// buildRequest deserializes a stored row into an executor request.
// Corrupt body or headers are treated as absent rather than aborting the
// pass.
func (m *Manager) buildRequest(row *models.QueuedRequest) Request {
	req := Request{
		Endpoint: row.Endpoint,
		Method:   row.Method,
		Headers:  make(map[string]string),
	}

	if row.Body.Valid {
		var body any
		if err := json.Unmarshal([]byte(row.Body.String), &body); err != nil {
			logging.Warn("dropping undecodable body", map[string]interface{}{
				"id": row.ID, "error": err.Error(),
			})
		} else {
			req.Body = body
		}
	}

	if row.Headers.Valid {
		var headers map[string]string
		if err := json.Unmarshal([]byte(row.Headers.String), &headers); err != nil {
			logging.Warn("dropping undecodable headers", map[string]interface{}{
				"id": row.ID, "error": err.Error(),
			})
		} else {
			for k, v := range headers {
				req.Headers[k] = v
			}
		}
	}

	if row.IdempotencyKey != "" {
		req.Headers["Idempotency-Key"] = row.IdempotencyKey
	}

	return req
}
