package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// EntityKind вид проецируемой сущности.
type EntityKind string

const (
	KindStack      EntityKind = "stack"
	KindTask       EntityKind = "task"
	KindArc        EntityKind = "arc"
	KindDevice     EntityKind = "device"
	KindReminder   EntityKind = "reminder"
	KindTag        EntityKind = "tag"
	KindAttachment EntityKind = "attachment"
)

// Kinds все известные виды сущностей.
var Kinds = []EntityKind{KindStack, KindTask, KindArc, KindDevice, KindReminder, KindTag, KindAttachment}

// Validate возвращает ошибку для неизвестного вида сущности.
func (k EntityKind) Validate() error {
	switch k {
	case KindStack, KindTask, KindArc, KindDevice, KindReminder, KindTag, KindAttachment:
		return nil
	default:
		return fmt.Errorf("unknown entity kind %q", string(k))
	}
}

// SyncState состояние синхронизации сущности.
type SyncState string

const (
	SyncStateSynced  SyncState = "synced"
	SyncStatePending SyncState = "pending"
)

// Reserved register names.
const (
	FieldDeleted  = "isDeleted"
	FieldParent   = "parent"
	FieldIsActive = "isActive"
	FieldStatus   = "status"
)

// Register is a single last-write-wins cell: the value, when it was written,
// and the event that wrote it.
type Register struct {
	UpdatedAt time.Time       `json:"updated_at"`
	EventID   string          `json:"event_id"`
	Value     json.RawMessage `json:"value"`
}

// Equal сравнивает регистры побайтово.
func (r Register) Equal(other Register) bool {
	return r.UpdatedAt.Equal(other.UpdatedAt) &&
		r.EventID == other.EventID &&
		bytes.Equal(r.Value, other.Value)
}

// EntityState плоский снимок сущности для LWW. Каждое поле хранит свой timestamp.
type EntityState struct {
	CreatedAt      time.Time           `json:"created_at"` // минимальный timestamp создания среди применённых событий
	UpdatedAt      time.Time           `json:"updated_at"` // максимальный timestamp среди регистров
	Fields         map[string]Register `json:"fields"`
	Kind           EntityKind          `json:"kind"`
	ID             string              `json:"id"`
	SyncState      SyncState           `json:"sync_state"`
	PendingEventID string              `json:"pending_event_id,omitempty"`
}

// NewEntityState создает пустое состояние сущности.
func NewEntityState(kind EntityKind, id string) *EntityState {
	return &EntityState{
		Kind:      kind,
		ID:        id,
		Fields:    make(map[string]Register),
		SyncState: SyncStateSynced,
	}
}

// Key возвращает ключ сущности в хранилище.
func (s *EntityState) Key() string {
	return EntityKey(s.Kind, s.ID)
}

// EntityKey собирает ключ хранилища из вида и идентификатора.
func EntityKey(kind EntityKind, id string) string {
	return string(kind) + "/" + id
}

// IsDeleted reports whether the deletion register is set to true.
func (s *EntityState) IsDeleted() bool {
	var deleted bool
	return s.decode(FieldDeleted, &deleted) && deleted
}

// IsActive reports whether the stack activation register is set to true.
func (s *EntityState) IsActive() bool {
	var active bool
	return s.decode(FieldIsActive, &active) && active
}

// String возвращает строковое значение поля или пустую строку.
func (s *EntityState) String(field string) string {
	var v string
	s.decode(field, &v)
	return v
}

// Parent возвращает ссылку на родителя, если она есть.
func (s *EntityState) Parent() (ParentRef, bool) {
	var p ParentRef
	if !s.decode(FieldParent, &p) {
		return ParentRef{}, false
	}
	return p, p.ID != ""
}

func (s *EntityState) decode(field string, dst any) bool {
	reg, ok := s.Fields[field]
	if !ok || len(reg.Value) == 0 {
		return false
	}
	return json.Unmarshal(reg.Value, dst) == nil
}

// Clone создает глубокую копию состояния
func (s *EntityState) Clone() *EntityState {
	c := *s
	c.Fields = make(map[string]Register, len(s.Fields))
	for name, reg := range s.Fields {
		value := make(json.RawMessage, len(reg.Value))
		copy(value, reg.Value)
		reg.Value = value
		c.Fields[name] = reg
	}
	return &c
}

// Equal compares two snapshots field by field.
func (s *EntityState) Equal(other *EntityState) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Kind != other.Kind || s.ID != other.ID ||
		!s.CreatedAt.Equal(other.CreatedAt) || !s.UpdatedAt.Equal(other.UpdatedAt) ||
		s.SyncState != other.SyncState || s.PendingEventID != other.PendingEventID ||
		len(s.Fields) != len(other.Fields) {
		return false
	}
	for name, reg := range s.Fields {
		o, ok := other.Fields[name]
		if !ok || !reg.Equal(o) {
			return false
		}
	}
	return true
}

// ParentType вариант родителя для напоминаний и вложений.
type ParentType string

const (
	ParentStack ParentType = "stack"
	ParentTask  ParentType = "task"
	ParentArc   ParentType = "arc"
)

// ParentRef is a tagged reference to a stack, task or arc.
type ParentRef struct {
	Type ParentType `json:"type"`
	ID   string     `json:"id"`
}

// Kind возвращает вид сущности родителя.
func (p ParentRef) Kind() EntityKind {
	switch p.Type {
	case ParentStack:
		return KindStack
	case ParentTask:
		return KindTask
	case ParentArc:
		return KindArc
	default:
		return ""
	}
}

// Validate проверяет тег и идентификатор родителя.
func (p ParentRef) Validate() error {
	switch p.Type {
	case ParentStack, ParentTask, ParentArc:
	default:
		return fmt.Errorf("unknown parent type %q", string(p.Type))
	}
	if p.ID == "" {
		return fmt.Errorf("parent %s has empty id", p.Type)
	}
	return nil
}

// Attachment метаданные бинарного вложения.
type Attachment struct {
	Parent   ParentRef `json:"parent"`
	ID       string    `json:"id"`
	Filename string    `json:"filename"`
	MimeType string    `json:"mime_type"`
	Size     int64     `json:"size"`
}
