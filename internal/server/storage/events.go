package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/iudanet/dequeuesync/internal/models"
)

//go:generate moq -out events_mock.go . EventStorage

// StoredEvent событие с порядковым номером в журнале сервера
type StoredEvent struct {
	Event *models.Event
	Seq   int64
}

// EventStorage defines the authoritative event log
type EventStorage interface {
	// AppendEvents stores events of the user in order.
	// Events whose id is already stored are ignored; returns how many were new.
	AppendEvents(ctx context.Context, userID string, events []*models.Event) (int, error)

	// EventsAfter returns up to limit events of the user with seq greater than after, ordered by seq
	EventsAfter(ctx context.Context, userID string, after int64, limit int) ([]StoredEvent, error)

	// CountEventsAfter returns how many events of the user have seq greater than after
	CountEventsAfter(ctx context.Context, userID string, after int64) (int, error)
}

// ParseCursor разбирает checkpoint клиента. Пустой cursor означает начало журнала.
func ParseCursor(cursor string) (int64, error) {
	if cursor == "" {
		return 0, nil
	}
	seq, err := strconv.ParseInt(cursor, 10, 64)
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return seq, nil
}

// FormatCursor returns the checkpoint that points after seq
func FormatCursor(seq int64) string {
	return strconv.FormatInt(seq, 10)
}
