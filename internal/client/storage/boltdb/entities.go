package boltdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/models"
)

// GetEntity retrieves projected state by kind and id
func (s *Storage) GetEntity(ctx context.Context, kind models.EntityKind, id string) (*models.EntityState, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var state *models.EntityState

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketEntities)
		if err != nil {
			return err
		}

		data := b.Get([]byte(models.EntityKey(kind, id)))
		if data == nil {
			return storage.ErrEntityNotFound
		}

		state = &models.EntityState{}
		if err := json.Unmarshal(data, state); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		if state.Fields == nil {
			state.Fields = make(map[string]models.Register)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return state, nil
}

// PutEntity stores or replaces projected state
func (s *Storage) PutEntity(ctx context.Context, state *models.EntityState) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketEntities)
		if err != nil {
			return err
		}

		if err := b.Put([]byte(state.Key()), data); err != nil {
			return fmt.Errorf("failed to save entity: %w", err)
		}

		return nil
	})
}

// DeleteEntity physically removes projected state
func (s *Storage) DeleteEntity(ctx context.Context, kind models.EntityKind, id string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketEntities)
		if err != nil {
			return err
		}

		key := []byte(models.EntityKey(kind, id))
		if b.Get(key) == nil {
			return storage.ErrEntityNotFound
		}

		return b.Delete(key)
	})
}

// QueryEntities returns all entities of kind matching predicate.
// Ключи имеют префикс "kind/", поэтому достаточно обойти диапазон через Seek.
func (s *Storage) QueryEntities(
	ctx context.Context,
	kind models.EntityKind,
	predicate func(*models.EntityState) bool,
) ([]*models.EntityState, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var result []*models.EntityState
	prefix := []byte(string(kind) + "/")

	err := s.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketEntities)
		if err != nil {
			return err
		}

		c := b.Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			state := &models.EntityState{}
			if err := json.Unmarshal(v, state); err != nil {
				return fmt.Errorf("failed to unmarshal entity %s: %w", k, err)
			}
			if state.Fields == nil {
				state.Fields = make(map[string]models.Register)
			}
			if predicate == nil || predicate(state) {
				result = append(result, state)
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

