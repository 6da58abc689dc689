// Package errors provides error code definitions shared across the LunchLine core.
package errors

import "fmt"

// ErrorCode identifies a class of failure that can be surfaced to app code.
type ErrorCode string

const (
	// General errors
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
	ErrInvalid    ErrorCode = "INVALID_INPUT"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrValidation ErrorCode = "VALIDATION_ERROR"

	// Database errors
	ErrDatabase   ErrorCode = "DATABASE_ERROR"
	ErrMigration  ErrorCode = "MIGRATION_FAILED"
	ErrConstraint ErrorCode = "CONSTRAINT_VIOLATION"

	// Offline queue errors
	ErrQueueEnqueue     ErrorCode = "QUEUE_ENQUEUE_FAILED"
	ErrStoreUnavailable ErrorCode = "QUEUE_STORE_UNAVAILABLE"
	ErrReplayClient     ErrorCode = "REPLAY_CLIENT_ERROR"
	ErrReplayNetwork    ErrorCode = "REPLAY_NETWORK_ERROR"
	ErrReplayServer     ErrorCode = "REPLAY_SERVER_ERROR"

	// API errors
	ErrAPIRequest     ErrorCode = "API_REQUEST_FAILED"
	ErrAPIUnreachable ErrorCode = "API_UNREACHABLE"
	ErrAPIDecode      ErrorCode = "API_DECODE_FAILED"

	// Config errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD_FAILED"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// AppError represents an application error with code and message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error carries a specific code.
func Is(err error, code ErrorCode) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == code
	}
	return false
}
