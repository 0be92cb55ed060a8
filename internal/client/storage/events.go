package storage

import (
	"context"

	"github.com/iudanet/dequeuesync/internal/models"
)

//go:generate moq -out eventlog_mock.go . EventLog

// EventLog is the local durable append-only table of outbound events.
// Events are never deleted by the sync engine; acknowledgment only flips Synced.
type EventLog interface {
	// AppendEvent stores a new event at the tail of the log.
	// Returns a ValidationError if the payload cannot be encoded and
	// ErrDuplicateEvent if an event with the same id exists.
	AppendEvent(ctx context.Context, event *models.Event) error

	// PendingEvents returns unsynced events in creation order.
	// limit <= 0 means no limit.
	PendingEvents(ctx context.Context, limit int) ([]*models.Event, error)

	// MarkSynced flips Synced for the given ids.
	// Unknown and already synced ids are ignored.
	MarkSynced(ctx context.Context, ids []string) error

	// CountPending returns the number of unsynced events
	CountPending(ctx context.Context) (int, error)
}
