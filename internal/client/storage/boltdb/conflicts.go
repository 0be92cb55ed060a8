package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/models"
)

// RecordConflict stores a conflict keyed by the losing event id.
// Повторная запись для того же события игнорируется.
func (s *Storage) RecordConflict(ctx context.Context, conflict *models.SyncConflict) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if conflict.EventID == "" {
		return fmt.Errorf("conflict for %s/%s has no event id", conflict.EntityType, conflict.EntityID)
	}

	data, err := json.Marshal(conflict)
	if err != nil {
		return fmt.Errorf("failed to marshal conflict: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketConflicts)
		if err != nil {
			return err
		}

		key := []byte(conflict.EventID)
		if b.Get(key) != nil {
			return nil
		}

		if err := b.Put(key, data); err != nil {
			return fmt.Errorf("failed to save conflict: %w", err)
		}

		return nil
	})
}

// ListConflicts returns conflicts ordered by detection time
func (s *Storage) ListConflicts(ctx context.Context) ([]*models.SyncConflict, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var result []*models.SyncConflict

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketConflicts)
		if err != nil {
			return err
		}

		return b.ForEach(func(k, v []byte) error {
			var conflict models.SyncConflict
			if err := json.Unmarshal(v, &conflict); err != nil {
				return fmt.Errorf("failed to unmarshal conflict %s: %w", k, err)
			}
			result = append(result, &conflict)
			return nil
		})
	})

	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(result, func(a, b *models.SyncConflict) int {
		return a.DetectedAt.Compare(b.DetectedAt)
	})

	return result, nil
}
