package boltdb

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

func newTestEvent(t *testing.T, title string) *models.Event {
	t.Helper()

	payload, err := models.EncodePayload(&models.PayloadV2{
		EntityID: "task-1",
		State:    map[string]json.RawMessage{"title": json.RawMessage(`"` + title + `"`)},
	})
	require.NoError(t, err)

	return &models.Event{
		ID:             models.NewEventID(),
		Type:           models.EventTaskUpdated,
		Timestamp:      time.Now().UTC(),
		UserID:         "user-1",
		DeviceID:       "device-1",
		AppID:          "test",
		Payload:        payload,
		PayloadVersion: models.CurrentPayloadVersion,
	}
}

func TestAppendEvent_PendingInOrder(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	var appended []*models.Event
	for _, title := range []string{"a", "b", "c", "d"} {
		e := newTestEvent(t, title)
		require.NoError(t, store.AppendEvent(ctx, e))
		appended = append(appended, e)
	}

	pending, err := store.PendingEvents(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, models.IDs(appended), models.IDs(pending))

	limited, err := store.PendingEvents(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, models.IDs(appended[:2]), models.IDs(limited))

	count, err := store.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestAppendEvent_Duplicate(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	e := newTestEvent(t, "a")
	require.NoError(t, store.AppendEvent(ctx, e))

	err := store.AppendEvent(ctx, e)
	assert.ErrorIs(t, err, storage.ErrDuplicateEvent)

	count, err := store.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAppendEvent_Invalid(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	e := newTestEvent(t, "a")
	e.Payload = json.RawMessage(`{not json`)

	err := store.AppendEvent(ctx, e)
	require.Error(t, err)
	assert.True(t, syncerr.IsValidation(err))

	count, err := store.CountPending(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkSynced(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	e1 := newTestEvent(t, "a")
	e2 := newTestEvent(t, "b")
	e3 := newTestEvent(t, "c")
	for _, e := range []*models.Event{e1, e2, e3} {
		require.NoError(t, store.AppendEvent(ctx, e))
	}

	require.NoError(t, store.MarkSynced(ctx, []string{e1.ID, e3.ID, "unknown"}))

	pending, err := store.PendingEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, e2.ID, pending[0].ID)
	assert.False(t, pending[0].Synced)

	// Повторная отметка ничего не ломает
	require.NoError(t, store.MarkSynced(ctx, []string{e1.ID}))
	require.NoError(t, store.MarkSynced(ctx, nil))

	count, err := store.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPendingEvents_SurviveReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "events.db")

	store, err := New(ctx, dbPath)
	require.NoError(t, err)

	e := newTestEvent(t, "offline")
	require.NoError(t, store.AppendEvent(ctx, e))
	require.NoError(t, store.Close())

	store, err = New(ctx, dbPath)
	require.NoError(t, err)
	defer store.Close()

	pending, err := store.PendingEvents(ctx, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, e.ID, pending[0].ID)
	assert.JSONEq(t, string(e.Payload), string(pending[0].Payload))
	assert.True(t, e.Timestamp.Equal(pending[0].Timestamp))
}
