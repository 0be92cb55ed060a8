// Package api contains wire types shared by the sync client and server.
package api

import (
	"encoding/json"
	"time"

	"github.com/iudanet/dequeuesync/internal/models"
)

// Event wire-представление события
type Event struct {
	Timestamp      time.Time       `json:"ts"`
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	DeviceID       string          `json:"device_id"`
	AppID          string          `json:"app_id"`
	Type           string          `json:"type"`
	Payload        json.RawMessage `json:"payload"`
	PayloadVersion int             `json:"payload_version"`
}

// PushRequest тело POST /api/v1/events
type PushRequest struct {
	Events []Event `json:"events"`
}

// PushResponse ответ на push
type PushResponse struct {
	Accepted   int `json:"accepted"`   // сколько событий было новыми
	Duplicates int `json:"duplicates"` // сколько уже было на сервере
}

// Pagination метаданные страницы pull
type Pagination struct {
	NextCursor string `json:"nextCursor"`
	HasMore    bool   `json:"hasMore"`
	Limit      int    `json:"limit"`
}

// PullPage ответ GET /api/v1/events?cursor=&limit=
type PullPage struct {
	Pagination *Pagination `json:"pagination,omitempty"`
	Data       []Event     `json:"data"`
}

// FromModel converts a domain event to its wire form.
func FromModel(e *models.Event) Event {
	return Event{
		ID:             e.ID,
		UserID:         e.UserID,
		DeviceID:       e.DeviceID,
		AppID:          e.AppID,
		Timestamp:      e.Timestamp.UTC(),
		Type:           string(e.Type),
		Payload:        e.Payload,
		PayloadVersion: e.PayloadVersion,
	}
}

// FromModels converts a batch preserving order.
func FromModels(events []*models.Event) []Event {
	result := make([]Event, 0, len(events))
	for _, e := range events {
		result = append(result, FromModel(e))
	}
	return result
}

// ToModel converts a wire event back to the domain type.
// Events received from the server are already synced.
func (e Event) ToModel() *models.Event {
	version := e.PayloadVersion
	if version == 0 {
		version = 1
	}
	return &models.Event{
		ID:             e.ID,
		Type:           models.EventType(e.Type),
		UserID:         e.UserID,
		DeviceID:       e.DeviceID,
		AppID:          e.AppID,
		Timestamp:      e.Timestamp,
		Payload:        e.Payload,
		PayloadVersion: version,
		Synced:         true,
	}
}

// ToModels converts a batch preserving order.
func ToModels(events []Event) []*models.Event {
	result := make([]*models.Event, 0, len(events))
	for _, e := range events {
		result = append(result, e.ToModel())
	}
	return result
}
