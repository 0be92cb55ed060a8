package storage

import "errors"

// Common storage errors
var (
	// ErrAttachmentNotFound indicates that attachment blob was not found
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrInvalidCursor indicates that pull cursor is not a checkpoint issued by the server
	ErrInvalidCursor = errors.New("invalid cursor")
)
