package storage

import (
	"context"

	"github.com/iudanet/dequeuesync/internal/models"
)

//go:generate moq -out conflictlog_mock.go . ConflictLog

// ConflictLog is the durable record of detected LWW conflicts.
type ConflictLog interface {
	// RecordConflict stores a conflict keyed by the losing event id.
	// An existing record for the same event is left untouched.
	RecordConflict(ctx context.Context, conflict *models.SyncConflict) error

	// ListConflicts returns conflicts ordered by detection time
	ListConflicts(ctx context.Context) ([]*models.SyncConflict, error)
}
