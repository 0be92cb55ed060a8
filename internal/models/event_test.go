package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_Parts(t *testing.T) {
	assert.Equal(t, KindStack, EventStackActivated.Kind())
	assert.Equal(t, ActionActivated, EventStackActivated.Action())
	assert.Equal(t, EventTaskCompleted, NewEventType(KindTask, ActionCompleted))
}

func TestEventType_ConflictType(t *testing.T) {
	assert.Equal(t, ConflictDelete, EventTaskDeleted.ConflictType())
	assert.Equal(t, ConflictStatusChange, EventTaskCompleted.ConflictType())
	assert.Equal(t, ConflictStatusChange, EventStackActivated.ConflictType())
	assert.Equal(t, ConflictUpdate, EventTaskUpdated.ConflictType())
	assert.Equal(t, ConflictUpdate, EventDeviceDiscovered.ConflictType())
}

func TestEvent_Validate(t *testing.T) {
	valid := func() *Event {
		return &Event{
			ID:             "evt-1",
			Type:           EventTaskCreated,
			Timestamp:      time.Now(),
			Payload:        json.RawMessage(`{"entityId":"t"}`),
			PayloadVersion: 2,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(e *Event)
	}{
		{"missing id", func(e *Event) { e.ID = "" }},
		{"unknown kind", func(e *Event) { e.Type = "folder.created" }},
		{"no action", func(e *Event) { e.Type = "task" }},
		{"zero timestamp", func(e *Event) { e.Timestamp = time.Time{} }},
		{"empty payload", func(e *Event) { e.Payload = nil }},
		{"invalid json", func(e *Event) { e.Payload = json.RawMessage(`{`) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid()
			tt.mutate(e)
			assert.Error(t, e.Validate())
		})
	}
}

func TestNewEventID_Sortable(t *testing.T) {
	first := NewEventID()
	second := NewEventID()

	id, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.Less(t, first, second)
}

func TestEvent_Clone(t *testing.T) {
	e := &Event{ID: "evt", Payload: json.RawMessage(`{"a":1}`)}
	c := e.Clone()
	c.Payload[2] = 'b'

	assert.Equal(t, `{"a":1}`, string(e.Payload))
}

func TestEntityState_Accessors(t *testing.T) {
	s := NewEntityState(KindStack, "s1")
	s.Fields[FieldIsActive] = Register{Value: json.RawMessage("true")}
	s.Fields["title"] = Register{Value: json.RawMessage(`"Inbox"`)}
	s.Fields[FieldParent] = Register{Value: json.RawMessage(`{"type":"arc","id":"a1"}`)}

	assert.True(t, s.IsActive())
	assert.False(t, s.IsDeleted())
	assert.Equal(t, "Inbox", s.String("title"))
	parent, ok := s.Parent()
	require.True(t, ok)
	assert.Equal(t, ParentRef{Type: ParentArc, ID: "a1"}, parent)

	c := s.Clone()
	assert.True(t, s.Equal(c))
	c.Fields["title"] = Register{Value: json.RawMessage(`"Other"`)}
	assert.False(t, s.Equal(c))
}
