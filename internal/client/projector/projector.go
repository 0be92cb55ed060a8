// Package projector applies events to the local entity store under
// per-field last-write-wins and records the changes that lost.
//
// The Projector is the only writer of projected entity state. Local
// mutations and remote events go through the same mutex, so they never
// interleave partial writes.
package projector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/crdt"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

// Origin откуда пришло событие
type Origin int

const (
	// OriginRemote событие получено с сервера
	OriginRemote Origin = iota
	// OriginLocal событие создано на этом устройстве и еще не отправлено
	OriginLocal
)

func (o Origin) String() string {
	if o == OriginLocal {
		return "local"
	}
	return "remote"
}

// Result итог применения одного события
type Result struct {
	Conflict  *models.SyncConflict // не nil, если входящее событие проиграло
	Kind      models.EntityKind
	EntityID  string
	Won       []string
	Lost      []string
	Inserted  bool
	Duplicate bool // событие уже было применено
}

// Changed reports whether the event wrote at least one register.
func (r *Result) Changed() bool {
	return len(r.Won) > 0
}

// BatchResult итог применения пачки событий
type BatchResult struct {
	Applied   int
	Skipped   int // события с некорректным payload
	Conflicts int
}

// Projector applies events to the entity store.
type Projector struct {
	entities  storage.EntityStore
	conflicts storage.ConflictLog
	clock     *crdt.Clock
	logger    *slog.Logger
	now       func() time.Time
	deviceID  string
	mu        sync.Mutex
}

// New creates a Projector. deviceID identifies this device so that echoes of
// its own events are never reported as conflicts.
func New(
	entities storage.EntityStore,
	conflicts storage.ConflictLog,
	clock *crdt.Clock,
	deviceID string,
	logger *slog.Logger,
) *Projector {
	return &Projector{
		entities:  entities,
		conflicts: conflicts,
		clock:     clock,
		deviceID:  deviceID,
		logger:    logger,
		now:       time.Now,
	}
}

// Apply decodes event and merges it into the local store.
// Malformed payloads are returned as ValidationError; the store is not touched.
func (p *Projector) Apply(ctx context.Context, event *models.Event, origin Origin) (*Result, error) {
	if err := event.Validate(); err != nil {
		return nil, syncerr.Validation(syncerr.OpApply, err)
	}
	frag, err := models.DecodePayload(event)
	if err != nil {
		return nil, syncerr.Validation(syncerr.OpApply, fmt.Errorf("event %s: %w", event.ID, err))
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.apply(ctx, event, frag, origin)
}

// ApplyBatch applies events strictly in order. Malformed events are skipped
// and logged; any other failure aborts the batch.
func (p *Projector) ApplyBatch(ctx context.Context, events []*models.Event, origin Origin) (BatchResult, error) {
	var res BatchResult

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		r, err := p.Apply(ctx, event, origin)
		if err != nil {
			if syncerr.IsValidation(err) {
				p.logger.Warn("skipping malformed event",
					slog.String("event_id", event.ID),
					slog.String("type", string(event.Type)),
					slog.Any("error", err))
				res.Skipped++
				continue
			}
			return res, err
		}

		res.Applied++
		if r.Conflict != nil {
			res.Conflicts++
		}
	}

	return res, nil
}

func (p *Projector) apply(ctx context.Context, event *models.Event, frag *models.Fragment, origin Origin) (*Result, error) {
	res := &Result{Kind: frag.Kind, EntityID: frag.EntityID}

	state, err := p.entities.GetEntity(ctx, frag.Kind, frag.EntityID)
	switch {
	case errors.Is(err, storage.ErrEntityNotFound):
		// новая сущность заполняется временем из payload, а не текущим
		state = models.NewEntityState(frag.Kind, frag.EntityID)
		state.CreatedAt = frag.FirstSeenAt
		state.UpdatedAt = frag.ChangedAt
		res.Inserted = true
	case err != nil:
		return nil, fmt.Errorf("failed to load %s: %w", models.EntityKey(frag.Kind, frag.EntityID), err)
	}

	dirty := res.Inserted
	if state.CreatedAt.IsZero() || frag.FirstSeenAt.Before(state.CreatedAt) {
		state.CreatedAt = frag.FirstSeenAt
		dirty = true
	}

	incoming := make(map[string]models.Register, len(frag.Fields))
	for name, value := range frag.Fields {
		incoming[name] = models.Register{
			Value:     value,
			UpdatedAt: frag.ChangedAt,
			EventID:   event.ID,
		}
	}

	merged := crdt.MergeFields(state, incoming)
	res.Won = merged.Won
	res.Lost = merged.Lost
	res.Duplicate = !res.Inserted && merged.Duplicate > 0 && !merged.Changed() && len(merged.Lost) == 0
	localMax := merged.LocalMax

	if state.Kind == models.KindStack && slices.Contains(merged.Won, models.FieldIsActive) && state.IsActive() {
		newer, err := p.resolveActiveStack(ctx, state, event)
		if err != nil {
			return nil, err
		}
		if newer != nil {
			res.Won = slices.DeleteFunc(res.Won, func(f string) bool { return f == models.FieldIsActive })
			res.Lost = append(res.Lost, models.FieldIsActive)
			slices.Sort(res.Lost)
			if newer.UpdatedAt.After(localMax) {
				localMax = newer.UpdatedAt
			}
		}
	}

	if merged.Changed() {
		dirty = true
		if origin == OriginLocal {
			state.SyncState = models.SyncStatePending
			state.PendingEventID = event.ID
		}
	}

	if dirty {
		if err := p.entities.PutEntity(ctx, state); err != nil {
			return nil, fmt.Errorf("failed to store %s: %w", state.Key(), err)
		}
	}

	if origin == OriginRemote {
		p.clock.Observe(frag.ChangedAt)
	}

	if len(res.Lost) > 0 {
		if err := p.recordConflict(ctx, event, frag, res, localMax, origin); err != nil {
			return nil, err
		}
	}

	p.logger.Debug("event applied",
		slog.String("event_id", event.ID),
		slog.String("entity", state.Key()),
		slog.String("origin", origin.String()),
		slog.Any("won", res.Won),
		slog.Any("lost", res.Lost))

	return res, nil
}

// resolveActiveStack keeps at most one active stack. Older activations are
// switched off with the winning timestamp; if another stack was activated
// later (or at the same instant) the incoming activation is switched off
// instead and the superseding register is returned.
func (p *Projector) resolveActiveStack(ctx context.Context, state *models.EntityState, event *models.Event) (*models.Register, error) {
	activeAt := state.Fields[models.FieldIsActive].UpdatedAt

	others, err := p.entities.QueryEntities(ctx, models.KindStack, func(s *models.EntityState) bool {
		return s.ID != state.ID && s.IsActive()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query active stacks: %w", err)
	}

	var newest *models.Register
	for _, other := range others {
		reg := other.Fields[models.FieldIsActive]
		if !reg.UpdatedAt.Before(activeAt) && (newest == nil || reg.UpdatedAt.After(newest.UpdatedAt)) {
			r := reg
			newest = &r
		}
	}

	if newest != nil {
		state.Fields[models.FieldIsActive] = models.Register{
			Value:     []byte("false"),
			UpdatedAt: newest.UpdatedAt,
			EventID:   newest.EventID,
		}
		if newest.UpdatedAt.After(state.UpdatedAt) {
			state.UpdatedAt = newest.UpdatedAt
		}
		return newest, nil
	}

	for _, other := range others {
		other.Fields[models.FieldIsActive] = models.Register{
			Value:     []byte("false"),
			UpdatedAt: activeAt,
			EventID:   event.ID,
		}
		if activeAt.After(other.UpdatedAt) {
			other.UpdatedAt = activeAt
		}
		if err := p.entities.PutEntity(ctx, other); err != nil {
			return nil, fmt.Errorf("failed to deactivate %s: %w", other.Key(), err)
		}
		p.logger.Debug("stack deactivated",
			slog.String("stack_id", other.ID),
			slog.String("by", state.ID))
	}

	return nil, nil
}

func (p *Projector) recordConflict(
	ctx context.Context,
	event *models.Event,
	frag *models.Fragment,
	res *Result,
	localMax time.Time,
	origin Origin,
) error {
	// эхо собственных событий и локальные записи конфликтами не считаются
	if origin == OriginLocal || event.DeviceID == p.deviceID {
		return nil
	}

	conflict := &models.SyncConflict{
		EntityType:      frag.Kind,
		EntityID:        frag.EntityID,
		EventID:         event.ID,
		LocalTimestamp:  localMax,
		RemoteTimestamp: frag.ChangedAt,
		ConflictType:    event.Type.ConflictType(),
		Resolution:      models.ResolutionKeptLocal,
		Fields:          res.Lost,
		DetectedAt:      p.now().UTC(),
		Resolved:        true,
	}

	if err := p.conflicts.RecordConflict(ctx, conflict); err != nil {
		return fmt.Errorf("failed to record conflict for %s: %w", event.ID, err)
	}
	res.Conflict = conflict

	p.logger.Info("conflict resolved",
		slog.String("entity", models.EntityKey(frag.Kind, frag.EntityID)),
		slog.String("event_id", event.ID),
		slog.String("conflict_type", string(conflict.ConflictType)),
		slog.Any("fields", res.Lost))

	return nil
}

// Acknowledge marks entities whose pending event has been pushed as synced.
func (p *Projector) Acknowledge(ctx context.Context, events []*models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, event := range events {
		frag, err := models.DecodePayload(event)
		if err != nil {
			continue
		}

		state, err := p.entities.GetEntity(ctx, frag.Kind, frag.EntityID)
		if errors.Is(err, storage.ErrEntityNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", models.EntityKey(frag.Kind, frag.EntityID), err)
		}

		// после push пришла более новая локальная правка: она остается pending
		if state.SyncState != models.SyncStatePending || state.PendingEventID != event.ID {
			continue
		}

		state.SyncState = models.SyncStateSynced
		state.PendingEventID = ""
		if err := p.entities.PutEntity(ctx, state); err != nil {
			return fmt.Errorf("failed to store %s: %w", state.Key(), err)
		}
	}

	return nil
}
