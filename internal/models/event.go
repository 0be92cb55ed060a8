package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventType тег события в формате "<kind>.<action>", например "stack.created".
type EventType string

// Action действие, закодированное во второй части EventType.
type Action string

const (
	ActionCreated    Action = "created"
	ActionUpdated    Action = "updated"
	ActionDeleted    Action = "deleted"
	ActionCompleted  Action = "completed"
	ActionReopened   Action = "reopened"
	ActionActivated  Action = "activated"
	ActionDiscovered Action = "discovered"
)

// Часто используемые типы событий.
const (
	EventStackCreated     EventType = "stack.created"
	EventStackUpdated     EventType = "stack.updated"
	EventStackDeleted     EventType = "stack.deleted"
	EventStackActivated   EventType = "stack.activated"
	EventStackCompleted   EventType = "stack.completed"
	EventTaskCreated      EventType = "task.created"
	EventTaskUpdated      EventType = "task.updated"
	EventTaskDeleted      EventType = "task.deleted"
	EventTaskCompleted    EventType = "task.completed"
	EventTaskReopened     EventType = "task.reopened"
	EventArcCreated       EventType = "arc.created"
	EventArcUpdated       EventType = "arc.updated"
	EventArcDeleted       EventType = "arc.deleted"
	EventReminderCreated  EventType = "reminder.created"
	EventReminderUpdated  EventType = "reminder.updated"
	EventReminderDeleted  EventType = "reminder.deleted"
	EventTagCreated       EventType = "tag.created"
	EventTagUpdated       EventType = "tag.updated"
	EventTagDeleted       EventType = "tag.deleted"
	EventDeviceDiscovered EventType = "device.discovered"
)

// CurrentPayloadVersion версия схемы payload, которую пишет этот клиент.
const CurrentPayloadVersion = 2

// Event represents an immutable change record. Only Synced changes after creation.
type Event struct {
	Timestamp      time.Time       `json:"timestamp"`
	ID             string          `json:"id"`
	Type           EventType       `json:"type"`
	UserID         string          `json:"user_id"`
	DeviceID       string          `json:"device_id"`
	AppID          string          `json:"app_id"`
	Payload        json.RawMessage `json:"payload"`
	PayloadVersion int             `json:"payload_version"`
	Synced         bool            `json:"synced"`
}

// NewEventID возвращает UUIDv7: уникальный и сортируемый по времени создания.
func NewEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Kind возвращает вид сущности из типа события.
func (t EventType) Kind() EntityKind {
	kind, _, _ := strings.Cut(string(t), ".")
	return EntityKind(kind)
}

// Action возвращает действие из типа события.
func (t EventType) Action() Action {
	_, action, _ := strings.Cut(string(t), ".")
	return Action(action)
}

// ConflictType maps the event's nature onto the conflict classification.
func (t EventType) ConflictType() ConflictType {
	switch t.Action() {
	case ActionDeleted:
		return ConflictDelete
	case ActionCompleted, ActionReopened, ActionActivated:
		return ConflictStatusChange
	default:
		return ConflictUpdate
	}
}

// NewEventType собирает тип события из вида сущности и действия.
func NewEventType(kind EntityKind, action Action) EventType {
	return EventType(string(kind) + "." + string(action))
}

// Validate проверяет структурную корректность события.
func (e *Event) Validate() error {
	if e.ID == "" {
		return errors.New("event id is required")
	}
	if err := e.Type.Kind().Validate(); err != nil {
		return fmt.Errorf("event %s: %w", e.ID, err)
	}
	if e.Type.Action() == "" {
		return fmt.Errorf("event %s: type %q has no action", e.ID, e.Type)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("event %s: timestamp is required", e.ID)
	}
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s: payload is required", e.ID)
	}
	if !json.Valid(e.Payload) {
		return fmt.Errorf("event %s: payload is not valid JSON", e.ID)
	}
	return nil
}

// Clone создает копию события
func (e *Event) Clone() *Event {
	payload := make(json.RawMessage, len(e.Payload))
	copy(payload, e.Payload)

	c := *e
	c.Payload = payload
	return &c
}

// IDs возвращает идентификаторы событий в исходном порядке.
func IDs(events []*Event) []string {
	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	return ids
}
