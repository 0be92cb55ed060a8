package storage

import (
	"context"
	"time"
)

//go:generate moq -out attachments_mock.go . AttachmentStorage

// Blob содержимое вложения
type Blob struct {
	UpdatedAt time.Time
	UserID    string
	ID        string
	MimeType  string
	Data      []byte
}

// AttachmentStorage defines persistence for attachment content
type AttachmentStorage interface {
	// PutAttachment creates or replaces the blob of the user
	PutAttachment(ctx context.Context, blob *Blob) error

	// GetAttachment returns ErrAttachmentNotFound if the user has no such blob
	GetAttachment(ctx context.Context, userID, id string) (*Blob, error)
}
