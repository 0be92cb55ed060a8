package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/server/storage"
)

var _ storage.EventStorage = (*Storage)(nil)

// AppendEvents stores events of the user in a single transaction.
// Events with an already known id are ignored (INSERT OR IGNORE), so pushes are idempotent.
func (s *Storage) AppendEvents(ctx context.Context, userID string, events []*models.Event) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO events (
			id, user_id, device_id, app_id, type, ts, payload, payload_version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	accepted := 0
	for _, event := range events {
		res, err := stmt.ExecContext(ctx,
			event.ID,
			userID,
			event.DeviceID,
			event.AppID,
			string(event.Type),
			event.Timestamp.UTC().Format(time.RFC3339Nano),
			[]byte(event.Payload),
			event.PayloadVersion,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert event %s: %w", event.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		accepted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit events: %w", err)
	}

	return accepted, nil
}

// EventsAfter returns events of the user ordered by seq
func (s *Storage) EventsAfter(ctx context.Context, userID string, after int64, limit int) ([]storage.StoredEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, user_id, device_id, app_id, type, ts, payload, payload_version
		FROM events
		WHERE user_id = ? AND seq > ?
		ORDER BY seq
		LIMIT ?
	`, userID, after, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// CountEventsAfter returns number of events the user has not seen after the checkpoint
func (s *Storage) CountEventsAfter(ctx context.Context, userID string, after int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE user_id = ? AND seq > ?`,
		userID, after,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// scanEvents is a helper function to scan events from rows
func scanEvents(rows *sql.Rows) ([]storage.StoredEvent, error) {
	var events []storage.StoredEvent

	for rows.Next() {
		var (
			seq       int64
			eventType string
			ts        string
			payload   []byte
		)
		event := &models.Event{Synced: true}

		err := rows.Scan(
			&seq,
			&event.ID,
			&event.UserID,
			&event.DeviceID,
			&event.AppID,
			&eventType,
			&ts,
			&payload,
			&event.PayloadVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		event.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp of event %s: %w", event.ID, err)
		}
		event.Type = models.EventType(eventType)
		event.Payload = payload

		events = append(events, storage.StoredEvent{Event: event, Seq: seq})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return events, nil
}
