// Package api provides the HTTP executor for the LunchLine backend API.
package api

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates request failures so callers can branch on the
// failure class instead of sniffing error messages.
type ErrorKind int

const (
	// KindNetwork means the server could not be reached at all.
	KindNetwork ErrorKind = iota
	// KindHTTP means the server was reached and answered with a non-2xx status.
	KindHTTP
	// KindOther covers everything else (encoding failures, bad inputs).
	KindOther
)

// String returns a readable name for the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	default:
		return "other"
	}
}

// RequestError is the tagged error type produced by the executor.
type RequestError struct {
	Kind       ErrorKind
	StatusCode int // set only for KindHTTP
	Endpoint   string
	Method     string
	Err        error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	switch e.Kind {
	case KindHTTP:
		return fmt.Sprintf("%s %s: server responded %d", e.Method, e.Endpoint, e.StatusCode)
	case KindNetwork:
		return fmt.Sprintf("%s %s: network unreachable: %v", e.Method, e.Endpoint, e.Err)
	default:
		return fmt.Sprintf("%s %s: request failed: %v", e.Method, e.Endpoint, e.Err)
	}
}

// Unwrap returns the underlying error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err means the server was unreachable.
func IsNetworkError(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Kind == KindNetwork
}

// IsClientError reports whether err is an HTTP 4xx response.
// These requests are permanently unfulfillable as stored.
func IsClientError(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	return reqErr.Kind == KindHTTP && reqErr.StatusCode >= 400 && reqErr.StatusCode < 500
}

// IsServerError reports whether err is an HTTP 5xx response.
func IsServerError(err error) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	return reqErr.Kind == KindHTTP && reqErr.StatusCode >= 500
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an
// HTTP-status failure.
func StatusCode(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.Kind == KindHTTP {
		return reqErr.StatusCode
	}
	return 0
}
