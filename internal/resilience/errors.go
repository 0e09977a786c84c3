// Package resilience retries transient failures of outbound API calls
// with exponential backoff.
package resilience

import (
	"errors"
	"net"
	"syscall"
)

// TransientError marks an error as safe to retry. Status carries the
// HTTP status code when the failure came from an API response.
type TransientError struct {
	Err    error
	Status int
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// MarkTransient wraps err so IsTransient recognizes it. status may be
// zero for non-HTTP failures.
func MarkTransient(err error, status int) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err, Status: status}
}

// IsTransient reports whether err is worth retrying: an explicit
// TransientError anywhere in the chain, a network timeout, or a
// connection-level failure.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var te *TransientError
	if errors.As(err, &te) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED)
}

// TransientStatus reports whether an HTTP status code indicates a
// retryable server-side condition.
func TransientStatus(code int) bool {
	return code == 408 || code == 429 || (code >= 500 && code <= 599)
}
