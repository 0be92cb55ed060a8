package models

import "time"

// ConflictType классификация конфликта по характеру проигравшего события.
type ConflictType string

const (
	ConflictUpdate       ConflictType = "update"
	ConflictDelete       ConflictType = "delete"
	ConflictStatusChange ConflictType = "statusChange"
)

// Resolution исход LWW.
type Resolution string

const (
	ResolutionKeptLocal  Resolution = "keptLocal"
	ResolutionKeptRemote Resolution = "keptRemote"
)

// SyncConflict записывается, когда входящее событие проиграло локальному состоянию.
// Запись неизменяема; используется только для отображения и аудита.
type SyncConflict struct {
	LocalTimestamp  time.Time    `json:"local_timestamp"`
	RemoteTimestamp time.Time    `json:"remote_timestamp"`
	DetectedAt      time.Time    `json:"detected_at"`
	EntityType      EntityKind   `json:"entity_type"`
	EntityID        string       `json:"entity_id"`
	EventID         string       `json:"event_id"`
	ConflictType    ConflictType `json:"conflict_type"`
	Resolution      Resolution   `json:"resolution"`
	Fields          []string     `json:"fields"`
	Resolved        bool         `json:"resolved"`
}
