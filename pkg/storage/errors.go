package storage

import "errors"

// Sentinel errors for storage operations.
var (
	// ErrNotFound is returned when no embedding is cached under a key.
	ErrNotFound = errors.New("embedding not found")
)
