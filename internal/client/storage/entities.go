package storage

import (
	"context"

	"github.com/iudanet/dequeuesync/internal/models"
)

//go:generate moq -out entitystore_mock.go . EntityStore

// EntityStore is the transactional object store for projected entity state,
// keyed by entity kind and id.
type EntityStore interface {
	// GetEntity retrieves projected state.
	// Returns ErrEntityNotFound if entity doesn't exist
	GetEntity(ctx context.Context, kind models.EntityKind, id string) (*models.EntityState, error)

	// PutEntity stores or replaces projected state
	PutEntity(ctx context.Context, state *models.EntityState) error

	// DeleteEntity physically removes projected state.
	// The projector never calls it; deletion is a register update.
	DeleteEntity(ctx context.Context, kind models.EntityKind, id string) error

	// QueryEntities returns all entities of kind matching predicate.
	// A nil predicate matches everything.
	QueryEntities(ctx context.Context, kind models.EntityKind, predicate func(*models.EntityState) bool) ([]*models.EntityState, error)
}
