package engine

import "errors"

var (
	// ErrFatal indicates a pass failed before any project was processed,
	// e.g. the remote project listing failed.
	ErrFatal = errors.New("sync failed")

	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrNotConfigured indicates the engine lacks an organization ID.
	ErrNotConfigured = errors.New("organization ID is not configured")
)
