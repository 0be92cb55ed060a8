package boltdb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/dequeuesync/internal/client/storage"
)

var (
	keyCheckpoint = []byte("checkpoint")
	keyDeviceID   = []byte("device_id")
)

// SaveCheckpoint saves the server cursor of the last fully projected batch
func (s *Storage) SaveCheckpoint(ctx context.Context, checkpoint string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}

		if err := b.Put(keyCheckpoint, []byte(checkpoint)); err != nil {
			return fmt.Errorf("failed to save checkpoint: %w", err)
		}

		return nil
	})
}

// GetCheckpoint retrieves the saved server cursor
// Returns empty string if no pull has completed yet
func (s *Storage) GetCheckpoint(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var checkpoint string

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}

		// Если checkpoint не найден, это первая синхронизация
		checkpoint = string(b.Get(keyCheckpoint))
		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to get checkpoint: %w", err)
	}

	return checkpoint, nil
}

// GetDeviceID returns the persistent identifier of this device,
// generating one on first use
func (s *Storage) GetDeviceID(ctx context.Context) (string, error) {
	if s.db == nil {
		return "", storage.ErrStorageClosed
	}

	var deviceID string

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}

		if existing := b.Get(keyDeviceID); existing != nil {
			deviceID = string(existing)
			return nil
		}

		deviceID = uuid.NewString()
		if err := b.Put(keyDeviceID, []byte(deviceID)); err != nil {
			return fmt.Errorf("failed to save device id: %w", err)
		}

		return nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to get device id: %w", err)
	}

	return deviceID, nil
}
