package domain

import "errors"

var (
	// ErrValidation marks input that failed validation.
	ErrValidation = errors.New("validation failed")
	// ErrDependencyUnavailable marks a failed call to Redis.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrNotFound marks a lookup with no entry.
	ErrNotFound = errors.New("not found")
)
