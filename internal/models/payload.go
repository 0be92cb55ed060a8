package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPayload возвращается, если payload не удалось разобрать.
var ErrInvalidPayload = errors.New("invalid event payload")

// Fragment is the typed slice of entity state carried by one event.
type Fragment struct {
	ChangedAt   time.Time                  // timestamp, с которым сравнивается локальное состояние
	FirstSeenAt time.Time                  // timestamp для первичного заполнения CreatedAt
	Fields      map[string]json.RawMessage // значения регистров, которые пишет событие
	Kind        EntityKind
	EntityID    string
}

// PayloadV2 текущая схема payload (RFC3339 timestamps, поля в state).
type PayloadV2 struct {
	CreatedAt   *time.Time                 `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time                 `json:"updatedAt,omitempty"`
	DeletedAt   *time.Time                 `json:"deletedAt,omitempty"`
	FirstSeenAt *time.Time                 `json:"firstSeenAt,omitempty"`
	LastSeenAt  *time.Time                 `json:"lastSeenAt,omitempty"`
	Parent      *ParentRef                 `json:"parent,omitempty"`
	State       map[string]json.RawMessage `json:"state,omitempty"`
	EntityID    string                     `json:"entityId"`
}

// Ключи payload версии 1, которые не являются полями сущности.
var v1MetaKeys = map[string]struct{}{
	"id":          {},
	"deviceId":    {},
	"createdAt":   {},
	"updatedAt":   {},
	"deletedAt":   {},
	"firstSeenAt": {},
	"lastSeenAt":  {},
	"parentType":  {},
	"parentId":    {},
}

// DecodePayload picks the schema by PayloadVersion and returns the fragment
// the event writes. Unknown versions and malformed payloads wrap ErrInvalidPayload.
func DecodePayload(e *Event) (*Fragment, error) {
	var (
		frag *Fragment
		err  error
	)

	switch e.PayloadVersion {
	case 1:
		frag, err = decodeV1(e)
	case 2:
		frag, err = decodeV2(e)
	default:
		return nil, fmt.Errorf("%w: unsupported payload version %d", ErrInvalidPayload, e.PayloadVersion)
	}
	if err != nil {
		return nil, err
	}

	if frag.EntityID == "" {
		return nil, fmt.Errorf("%w: entity id is missing", ErrInvalidPayload)
	}
	if err := frag.Kind.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	applyAction(e.Type.Action(), frag)
	return frag, nil
}

type payloadTimes struct {
	createdAt, updatedAt, deletedAt, firstSeenAt, lastSeenAt *time.Time
}

func decodeV1(e *Event) (*Fragment, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(e.Payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	frag := &Fragment{
		Kind:   e.Type.Kind(),
		Fields: make(map[string]json.RawMessage),
	}

	if err := decodeString(raw, "id", &frag.EntityID); err != nil {
		return nil, err
	}
	if frag.EntityID == "" {
		if err := decodeString(raw, "deviceId", &frag.EntityID); err != nil {
			return nil, err
		}
	}

	var times payloadTimes
	for key, dst := range map[string]**time.Time{
		"createdAt":   &times.createdAt,
		"updatedAt":   &times.updatedAt,
		"deletedAt":   &times.deletedAt,
		"firstSeenAt": &times.firstSeenAt,
		"lastSeenAt":  &times.lastSeenAt,
	} {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			continue
		}
		var millis int64
		if err := json.Unmarshal(v, &millis); err != nil {
			return nil, fmt.Errorf("%w: %s must be unix milliseconds", ErrInvalidPayload, key)
		}
		t := time.UnixMilli(millis).UTC()
		*dst = &t
	}

	var parentType, parentID string
	if err := decodeString(raw, "parentType", &parentType); err != nil {
		return nil, err
	}
	if err := decodeString(raw, "parentId", &parentID); err != nil {
		return nil, err
	}
	if parentType != "" || parentID != "" {
		if err := setParent(frag, ParentRef{Type: ParentType(parentType), ID: parentID}); err != nil {
			return nil, err
		}
	}

	for key, v := range raw {
		if _, meta := v1MetaKeys[key]; meta {
			continue
		}
		frag.Fields[key] = v
	}

	resolveTimes(e, frag, times)
	return frag, nil
}

func decodeV2(e *Event) (*Fragment, error) {
	var p PayloadV2
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	frag := &Fragment{
		Kind:     e.Type.Kind(),
		EntityID: p.EntityID,
		Fields:   make(map[string]json.RawMessage, len(p.State)+1),
	}
	for key, v := range p.State {
		if key == FieldParent {
			continue
		}
		frag.Fields[key] = v
	}
	if p.Parent != nil {
		if err := setParent(frag, *p.Parent); err != nil {
			return nil, err
		}
	}

	resolveTimes(e, frag, payloadTimes{
		createdAt:   p.CreatedAt,
		updatedAt:   p.UpdatedAt,
		deletedAt:   p.DeletedAt,
		firstSeenAt: p.FirstSeenAt,
		lastSeenAt:  p.LastSeenAt,
	})
	return frag, nil
}

// resolveTimes выбирает timestamp, относящийся к характеру события.
// Время "сейчас" никогда не используется: только время из payload или события.
func resolveTimes(e *Event, frag *Fragment, t payloadTimes) {
	var changed *time.Time
	switch e.Type.Action() {
	case ActionDeleted:
		changed = firstSet(t.deletedAt, t.updatedAt)
	case ActionDiscovered:
		changed = firstSet(t.lastSeenAt, t.updatedAt)
	default:
		changed = firstSet(t.updatedAt, t.lastSeenAt, t.createdAt)
	}

	frag.ChangedAt = e.Timestamp.UTC()
	if changed != nil {
		frag.ChangedAt = changed.UTC()
	}

	frag.FirstSeenAt = frag.ChangedAt
	if first := firstSet(t.firstSeenAt, t.createdAt); first != nil {
		frag.FirstSeenAt = first.UTC()
	}
}

// applyAction добавляет регистры, которые подразумевает само действие.
func applyAction(action Action, frag *Fragment) {
	setDefault := func(field string, value string) {
		if _, ok := frag.Fields[field]; !ok {
			frag.Fields[field] = json.RawMessage(value)
		}
	}

	switch action {
	case ActionDeleted:
		frag.Fields[FieldDeleted] = json.RawMessage("true")
	case ActionCompleted:
		setDefault(FieldStatus, `"completed"`)
	case ActionReopened:
		setDefault(FieldStatus, `"open"`)
	case ActionActivated:
		frag.Fields[FieldIsActive] = json.RawMessage("true")
	}
}

func setParent(frag *Fragment, parent ParentRef) error {
	if err := parent.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	value, err := json.Marshal(parent)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	frag.Fields[FieldParent] = value
	return nil
}

func decodeString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok || string(v) == "null" {
		return nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return fmt.Errorf("%w: %s must be a string", ErrInvalidPayload, key)
	}
	return nil
}

func firstSet(ts ...*time.Time) *time.Time {
	for _, t := range ts {
		if t != nil && !t.IsZero() {
			return t
		}
	}
	return nil
}

// EncodePayload сериализует payload текущей версии.
func EncodePayload(p *PayloadV2) (json.RawMessage, error) {
	if p.EntityID == "" {
		return nil, fmt.Errorf("%w: entity id is missing", ErrInvalidPayload)
	}
	if p.Parent != nil {
		if err := p.Parent.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return data, nil
}
