package domain

import "errors"

// Failure classes recognised by the retry policy.
var (
	// ErrQuotaExceeded is returned when a remote quota is exhausted.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrTransientServer is returned for 500/503 style server failures.
	ErrTransientServer = errors.New("transient server error")

	// ErrRejectedInput is returned when the generation service refuses a prompt.
	ErrRejectedInput = errors.New("rejected input")

	// ErrTimeout is returned when a remote call times out.
	ErrTimeout = errors.New("timeout")

	// ErrNotFound is returned when the root folder cannot be resolved.
	ErrNotFound = errors.New("not found")

	// ErrServiceUnavailable is returned once the retry budget is spent.
	ErrServiceUnavailable = errors.New("service still unavailable")
)
