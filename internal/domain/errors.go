package domain

import "errors"

var (
	// ErrNotFound is returned when a record does not exist in the owner's
	// partition. Store adapters map their backend-specific errors to it.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when creating a record whose id already exists.
	ErrConflict = errors.New("record already exists")
)
