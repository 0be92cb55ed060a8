package sync

import (
	"context"

	"github.com/iudanet/dequeuesync/internal/client/projector"
	"github.com/iudanet/dequeuesync/internal/models"
)

//go:generate moq -out applier_mock.go . Applier

// Applier is the part of the projector the manager drives.
type Applier interface {
	ApplyBatch(ctx context.Context, events []*models.Event, origin projector.Origin) (projector.BatchResult, error)
	Acknowledge(ctx context.Context, events []*models.Event) error
}

var _ Applier = (*projector.Projector)(nil)
