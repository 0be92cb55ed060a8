package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/dequeuesync/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketAuth      = []byte("auth")
	bucketMetadata  = []byte("metadata")
	bucketEvents    = []byte("events")     // seq -> event record
	bucketEventIDs  = []byte("event_ids")  // event id -> seq
	bucketPending   = []byte("pending")    // seq -> empty, только несинхронизированные
	bucketEntities  = []byte("entities")   // kind/id -> entity state
	bucketConflicts = []byte("conflicts")  // event id -> conflict
)

var allBuckets = [][]byte{
	bucketAuth,
	bucketMetadata,
	bucketEvents,
	bucketEventIDs,
	bucketPending,
	bucketEntities,
	bucketConflicts,
}

// Storage represents BoltDB storage implementation for client.
// It implements EventLog, EntityStore, ConflictLog, MetadataStorage and AuthStorage.
type Storage struct {
	db *bbolt.DB
}

var (
	_ storage.EventLog        = (*Storage)(nil)
	_ storage.EntityStore     = (*Storage)(nil)
	_ storage.ConflictLog     = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
	_ storage.AuthStorage     = (*Storage)(nil)
)

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// bucket возвращает bucket или ошибку, если он был удален
func bucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%s bucket not found", name)
	}
	return b, nil
}
