package api

import (
	"errors"
	"net/http"
)

// Error is returned by every failed call. Message is safe to show users.
type Error struct {
	Op         Operation
	StatusCode int // 0 when no response was received
	Message    string
	Timeout    bool
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the same call may succeed.
func (e *Error) Retryable() bool {
	switch {
	case e.Timeout:
		return true
	case e.StatusCode == 0:
		return e.Err != nil && !errors.Is(e.Err, errCancelled)
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	default:
		return e.StatusCode >= http.StatusInternalServerError
	}
}

var errCancelled = errors.New("request cancelled")

// Message returns the user-facing message for err, falling back to op's
// default when err did not come from this package.
func Message(err error, op Operation) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return op.Fallback()
}

// IsRetryable reports whether err is an *Error worth retrying.
func IsRetryable(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// IsTimeout reports whether err is a timed out call.
func IsTimeout(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Timeout
}
