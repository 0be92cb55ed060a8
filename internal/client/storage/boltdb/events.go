package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

// seqKey кодирует порядковый номер в big-endian, чтобы курсор bbolt
// обходил события в порядке добавления.
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// AppendEvent stores a new event at the tail of the log
func (s *Storage) AppendEvent(ctx context.Context, event *models.Event) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}

	if err := event.Validate(); err != nil {
		return syncerr.Validation(syncerr.OpAppend, err)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return syncerr.Validation(syncerr.OpAppend, fmt.Errorf("failed to marshal event: %w", err))
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		events, err := bucket(tx, bucketEvents)
		if err != nil {
			return err
		}
		ids, err := bucket(tx, bucketEventIDs)
		if err != nil {
			return err
		}
		pending, err := bucket(tx, bucketPending)
		if err != nil {
			return err
		}

		if ids.Get([]byte(event.ID)) != nil {
			return fmt.Errorf("event %s: %w", event.ID, storage.ErrDuplicateEvent)
		}

		seq, err := events.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate event sequence: %w", err)
		}
		key := seqKey(seq)

		if err := events.Put(key, data); err != nil {
			return fmt.Errorf("failed to save event: %w", err)
		}
		if err := ids.Put([]byte(event.ID), key); err != nil {
			return fmt.Errorf("failed to index event: %w", err)
		}
		if !event.Synced {
			if err := pending.Put(key, []byte{}); err != nil {
				return fmt.Errorf("failed to mark event pending: %w", err)
			}
		}

		return nil
	})
}

// PendingEvents returns unsynced events in creation order
func (s *Storage) PendingEvents(ctx context.Context, limit int) ([]*models.Event, error) {
	if s.db == nil {
		return nil, storage.ErrStorageClosed
	}

	var result []*models.Event

	err := s.db.View(func(tx *bbolt.Tx) error {
		events, err := bucket(tx, bucketEvents)
		if err != nil {
			return err
		}
		pending, err := bucket(tx, bucketPending)
		if err != nil {
			return err
		}

		c := pending.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if limit > 0 && len(result) >= limit {
				break
			}

			data := events.Get(k)
			if data == nil {
				// индекс ссылается на отсутствующую запись, пропускаем
				continue
			}

			var event models.Event
			if err := json.Unmarshal(data, &event); err != nil {
				return fmt.Errorf("failed to unmarshal event: %w", err)
			}
			result = append(result, &event)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return result, nil
}

// MarkSynced flips Synced for the given ids
func (s *Storage) MarkSynced(ctx context.Context, ids []string) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	if len(ids) == 0 {
		return nil
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		events, err := bucket(tx, bucketEvents)
		if err != nil {
			return err
		}
		index, err := bucket(tx, bucketEventIDs)
		if err != nil {
			return err
		}
		pending, err := bucket(tx, bucketPending)
		if err != nil {
			return err
		}

		for _, id := range ids {
			key := index.Get([]byte(id))
			if key == nil || pending.Get(key) == nil {
				continue
			}
			// bbolt запрещает использовать возвращенный слайс после изменения bucket
			key = append([]byte(nil), key...)

			data := events.Get(key)
			if data == nil {
				continue
			}

			var event models.Event
			if err := json.Unmarshal(data, &event); err != nil {
				return fmt.Errorf("failed to unmarshal event %s: %w", id, err)
			}
			event.Synced = true

			updated, err := json.Marshal(&event)
			if err != nil {
				return fmt.Errorf("failed to marshal event %s: %w", id, err)
			}
			if err := events.Put(key, updated); err != nil {
				return fmt.Errorf("failed to update event %s: %w", id, err)
			}
			if err := pending.Delete(key); err != nil {
				return fmt.Errorf("failed to clear pending flag for %s: %w", id, err)
			}
		}

		return nil
	})
}

// CountPending returns the number of unsynced events
func (s *Storage) CountPending(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, storage.ErrStorageClosed
	}

	var count int
	err := s.db.View(func(tx *bbolt.Tx) error {
		pending, err := bucket(tx, bucketPending)
		if err != nil {
			return err
		}
		count = pending.Stats().KeyN
		return nil
	})

	return count, err
}
