// Package data implements local mutations: every change becomes an event in
// the EventLog and is projected immediately, before any network activity.
package data

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/iudanet/dequeuesync/internal/client/projector"
	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/crdt"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

//go:generate moq -out applier_mock.go . LocalApplier

// LocalApplier projects a single local event
type LocalApplier interface {
	Apply(ctx context.Context, event *models.Event, origin projector.Origin) (*projector.Result, error)
}

var _ LocalApplier = (*projector.Projector)(nil)

// Identity подписывает локальные события
type Identity struct {
	UserID   string
	DeviceID string
	AppID    string
}

// ErrReservedField returned when a generic update touches a register owned by a dedicated operation.
var ErrReservedField = errors.New("field is managed by a dedicated operation")

var reservedFields = []string{models.FieldDeleted, models.FieldIsActive, models.FieldParent}

// Service creates events for local changes
type Service struct {
	events   storage.EventLog
	entities storage.EntityStore
	applier  LocalApplier
	clock    *crdt.Clock
	logger   *slog.Logger
	identity Identity
	mu       sync.Mutex
}

// NewService creates a new data service
func NewService(
	events storage.EventLog,
	entities storage.EntityStore,
	applier LocalApplier,
	clock *crdt.Clock,
	identity Identity,
	logger *slog.Logger,
) *Service {
	return &Service{
		events:   events,
		entities: entities,
		applier:  applier,
		clock:    clock,
		identity: identity,
		logger:   logger,
	}
}

// SetUserID sets the user stamped on new events (after login)
func (s *Service) SetUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity.UserID = userID
}

// Create records a new entity. An empty id gets a generated one.
func (s *Service) Create(ctx context.Context, kind models.EntityKind, id string, fields map[string]any, parent *models.ParentRef) (*models.EntityState, error) {
	if id == "" {
		id = models.NewEventID()
	}
	state, err := encodeFields(fields)
	if err != nil {
		return nil, err
	}

	return s.record(ctx, kind, models.ActionCreated, id, func(ts time.Time, p *models.PayloadV2) {
		p.CreatedAt = &ts
		p.UpdatedAt = &ts
		p.State = state
		p.Parent = parent
	})
}

// Update writes the given fields of an existing entity
func (s *Service) Update(ctx context.Context, kind models.EntityKind, id string, fields map[string]any) (*models.EntityState, error) {
	if len(fields) == 0 {
		return nil, syncerr.Validation(syncerr.OpAppend, errors.New("nothing to update"))
	}
	state, err := encodeFields(fields)
	if err != nil {
		return nil, err
	}
	if _, err := s.live(ctx, kind, id); err != nil {
		return nil, err
	}

	return s.record(ctx, kind, models.ActionUpdated, id, func(ts time.Time, p *models.PayloadV2) {
		p.UpdatedAt = &ts
		p.State = state
	})
}

// Move changes the parent of a reminder or attachment
func (s *Service) Move(ctx context.Context, kind models.EntityKind, id string, parent models.ParentRef) (*models.EntityState, error) {
	if err := parent.Validate(); err != nil {
		return nil, syncerr.Validation(syncerr.OpAppend, err)
	}
	if _, err := s.live(ctx, kind, id); err != nil {
		return nil, err
	}

	return s.record(ctx, kind, models.ActionUpdated, id, func(ts time.Time, p *models.PayloadV2) {
		p.UpdatedAt = &ts
		p.Parent = &parent
	})
}

// Delete marks the entity deleted. The state stays in the store.
func (s *Service) Delete(ctx context.Context, kind models.EntityKind, id string) (*models.EntityState, error) {
	if _, err := s.live(ctx, kind, id); err != nil {
		return nil, err
	}

	return s.record(ctx, kind, models.ActionDeleted, id, func(ts time.Time, p *models.PayloadV2) {
		p.DeletedAt = &ts
	})
}

// Restore clears the deletion register
func (s *Service) Restore(ctx context.Context, kind models.EntityKind, id string) (*models.EntityState, error) {
	if _, err := s.entities.GetEntity(ctx, kind, id); err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}

	return s.record(ctx, kind, models.ActionUpdated, id, func(ts time.Time, p *models.PayloadV2) {
		p.UpdatedAt = &ts
		p.State = map[string]json.RawMessage{models.FieldDeleted: json.RawMessage("false")}
	})
}

// SetStatus completes or reopens a task or stack
func (s *Service) SetStatus(ctx context.Context, kind models.EntityKind, id string, completed bool) (*models.EntityState, error) {
	if kind != models.KindTask && kind != models.KindStack {
		return nil, syncerr.Validation(syncerr.OpAppend, fmt.Errorf("%s has no status", kind))
	}
	if _, err := s.live(ctx, kind, id); err != nil {
		return nil, err
	}

	action := models.ActionReopened
	if completed {
		action = models.ActionCompleted
	}
	return s.record(ctx, kind, action, id, func(ts time.Time, p *models.PayloadV2) {
		p.UpdatedAt = &ts
	})
}

// Activate makes the stack the active one; other stacks are deactivated by the projector.
func (s *Service) Activate(ctx context.Context, stackID string) (*models.EntityState, error) {
	if _, err := s.live(ctx, models.KindStack, stackID); err != nil {
		return nil, err
	}

	return s.record(ctx, models.KindStack, models.ActionActivated, stackID, func(ts time.Time, p *models.PayloadV2) {
		p.UpdatedAt = &ts
	})
}

// DiscoverDevice announces this device to the user's other devices
func (s *Service) DiscoverDevice(ctx context.Context, name string) (*models.EntityState, error) {
	if name == "" {
		name = s.identity.DeviceID
	}
	state, err := encodeFields(map[string]any{
		"name":     name,
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
		"appId":    s.identity.AppID,
	})
	if err != nil {
		return nil, err
	}

	var firstSeen *time.Time
	if existing, err := s.entities.GetEntity(ctx, models.KindDevice, s.identity.DeviceID); err == nil {
		firstSeen = &existing.CreatedAt
	} else if !errors.Is(err, storage.ErrEntityNotFound) {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return s.record(ctx, models.KindDevice, models.ActionDiscovered, s.identity.DeviceID, func(ts time.Time, p *models.PayloadV2) {
		p.LastSeenAt = &ts
		p.FirstSeenAt = &ts
		if firstSeen != nil {
			p.FirstSeenAt = firstSeen
		}
		p.State = state
	})
}

// Get returns projected state, including deleted entities
func (s *Service) Get(ctx context.Context, kind models.EntityKind, id string) (*models.EntityState, error) {
	state, err := s.entities.GetEntity(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	return state, nil
}

// List returns live entities of kind ordered by creation time
func (s *Service) List(ctx context.Context, kind models.EntityKind) ([]*models.EntityState, error) {
	if err := kind.Validate(); err != nil {
		return nil, syncerr.Validation(syncerr.OpAppend, err)
	}
	list, err := s.entities.QueryEntities(ctx, kind, func(e *models.EntityState) bool {
		return !e.IsDeleted()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	slices.SortFunc(list, func(a, b *models.EntityState) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), strings.Compare(a.ID, b.ID))
	})
	return list, nil
}

// live returns the entity if it exists and is not deleted
func (s *Service) live(ctx context.Context, kind models.EntityKind, id string) (*models.EntityState, error) {
	state, err := s.entities.GetEntity(ctx, kind, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", kind, id, err)
	}
	if state.IsDeleted() {
		return nil, fmt.Errorf("%s %s is deleted: %w", kind, id, storage.ErrEntityNotFound)
	}
	return state, nil
}

// record строит событие, пишет его в EventLog и сразу проецирует.
// Append и apply выполняются под одной блокировкой: порядок в логе
// совпадает с порядком применения.
func (s *Service) record(
	ctx context.Context,
	kind models.EntityKind,
	action models.Action,
	id string,
	fill func(ts time.Time, p *models.PayloadV2),
) (*models.EntityState, error) {
	if err := kind.Validate(); err != nil {
		return nil, syncerr.Validation(syncerr.OpAppend, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.clock.Now()
	p := &models.PayloadV2{EntityID: id}
	fill(ts, p)

	payload, err := models.EncodePayload(p)
	if err != nil {
		return nil, syncerr.Validation(syncerr.OpAppend, err)
	}

	event := &models.Event{
		ID:             models.NewEventID(),
		Type:           models.NewEventType(kind, action),
		Timestamp:      ts,
		UserID:         s.identity.UserID,
		DeviceID:       s.identity.DeviceID,
		AppID:          s.identity.AppID,
		Payload:        payload,
		PayloadVersion: models.CurrentPayloadVersion,
	}

	if err := s.events.AppendEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}
	if _, err := s.applier.Apply(ctx, event, projector.OriginLocal); err != nil {
		// событие уже в логе и будет отправлено; проекцию восстановит повторное применение
		s.logger.Error("failed to project local event",
			slog.String("event_id", event.ID),
			slog.String("type", string(event.Type)),
			slog.Any("error", err))
		return nil, fmt.Errorf("failed to apply event %s: %w", event.ID, err)
	}

	s.logger.Debug("local event recorded",
		slog.String("event_id", event.ID),
		slog.String("type", string(event.Type)),
		slog.String("entity_id", id))

	return s.entities.GetEntity(ctx, kind, id)
}

func encodeFields(fields map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(fields))
	for name, v := range fields {
		if slices.Contains(reservedFields, name) {
			return nil, syncerr.Validation(syncerr.OpAppend, fmt.Errorf("%s: %w", name, ErrReservedField))
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, syncerr.Validation(syncerr.OpAppend, fmt.Errorf("field %s: %w", name, err))
		}
		out[name] = raw
	}
	return out, nil
}
