package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness. The JSON form is
// the exact error contract the dashboard pages consume: a short machine
// readable message plus optional diagnostic details and a static hint. The
// wrapped cause is never serialised, so connection strings and SQL text stay
// out of responses.
type Error struct {
	Code    string `json:"-"`
	Status  int    `json:"-"`
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrUnknownMetric    = New("UNKNOWN_METRIC", http.StatusBadRequest, "unknown metric")
	ErrMissingParameter = New("MISSING_PARAMETER", http.StatusBadRequest, "missing required parameter")
	ErrValidation       = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrQueryFailed      = New("QUERY_FAILED", http.StatusInternalServerError, "query failed")
	ErrInternal         = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss        = New("CACHE_MISS", http.StatusInternalServerError, "cache miss")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Query wraps a backing-store failure. Details carry the underlying message
// text only; the hint is a static pointer at likely causes and may be empty.
func Query(err error, hint string) *Error {
	e := Wrap(err, ErrQueryFailed.Code, ErrQueryFailed.Status, ErrQueryFailed.Message)
	if err != nil {
		e.Details = err.Error()
	}
	e.Hint = hint
	return e
}
