package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveCheckpoint saves the server cursor of the last fully projected batch
	SaveCheckpoint(ctx context.Context, checkpoint string) error

	// GetCheckpoint retrieves the saved server cursor
	// Returns empty string if no pull has completed yet
	GetCheckpoint(ctx context.Context) (string, error)

	// GetDeviceID returns the persistent identifier of this device,
	// generating one on first use
	GetDeviceID(ctx context.Context) (string, error)
}
