package ai

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded indicates the provider returned a quota/limit error
// (HTTP 429 or similar), or the daily usage ceiling for the provider was
// reached. Not retryable against the same provider on the same day.
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// TransientError wraps network/timeout/rate-limit failures that are worth
// retrying with backoff.
type TransientError struct {
	Cause error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient provider error: %v", e.Cause)
}

func (e *TransientError) Unwrap() error { return e.Cause }

// IsTransient reports whether err should be retried against the same provider.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// RetryExhaustedError is returned when every attempt on every configured
// provider has failed. It carries the attempt count and the last cause.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error { return e.LastErr }

// MalformedOutputError is returned when the response text could not be
// converted into structured data by any extraction strategy. Raw keeps the
// original response so diagnostics are never lost.
type MalformedOutputError struct {
	Raw     string
	LastErr error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.LastErr)
}

func (e *MalformedOutputError) Unwrap() error { return e.LastErr }

// ValidationError indicates a parsed value failed shape/range checks. The
// extractor routes it back into the next strategy instead of failing hard.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %q: %s", e.Field, e.Reason)
}
