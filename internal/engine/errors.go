package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")

	// ErrNoConfigStream indicates a container has no startup configuration.
	ErrNoConfigStream = errors.New("no startup configuration in container")
)
