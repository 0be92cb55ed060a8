package storage

import "errors"

// Common client storage errors
var (
	// ErrAuthNotFound indicates that no authentication data exists
	ErrAuthNotFound = errors.New("authentication data not found")

	// ErrEntityNotFound indicates that projected entity was not found
	ErrEntityNotFound = errors.New("entity not found")

	// ErrDuplicateEvent indicates that event with the same id was already appended
	ErrDuplicateEvent = errors.New("event already exists")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
