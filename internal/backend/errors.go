package backend

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is wrapped by a TransportError when a response body
// is not JSON, or a successful one lacks the expected payload.
var ErrMalformedResponse = errors.New("malformed response body")

// Op names a backend operation.
type Op string

const (
	// OpEnroll is POST /enroll.
	OpEnroll Op = "enroll"
	// OpTranscribe is POST /transcribe.
	OpTranscribe Op = "transcribe"
)

// BackendError is a non-2xx response from the recognition backend.
//
//nolint:revive // backend.BackendError reads fine at call sites next to TransportError
type BackendError struct {
	// Op is the operation that was rejected.
	Op Op

	// StatusCode is the HTTP status code returned.
	StatusCode int

	// Reason is the "error" field of the JSON body, empty when the body
	// carried no parseable reason.
	Reason string

	// RequestID is the X-Request-ID sent with the request.
	RequestID string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("backend %s failed (%d)", e.Op, e.StatusCode)
	}

	return fmt.Sprintf("backend %s failed (%d): %s", e.Op, e.StatusCode, e.Reason)
}

// TransportError means the request did not produce a usable response:
// connection failures, timeouts, unreadable or malformed bodies.
type TransportError struct {
	Op  Op
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s request failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}
