package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/client/projector"
	"github.com/iudanet/dequeuesync/internal/client/retry"
	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/client/transport"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEvent(id string) *models.Event {
	return &models.Event{
		ID:             id,
		Type:           models.EventTaskUpdated,
		Timestamp:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		UserID:         "u1",
		DeviceID:       "d1",
		AppID:          "test",
		Payload:        json.RawMessage(`{"entityId":"t1"}`),
		PayloadVersion: 2,
	}
}

// memLog простая реализация EventLog поверх EventLogMock
type memLog struct {
	events []*models.Event
	mu     sync.Mutex
}

func (l *memLog) mock() *storage.EventLogMock {
	return &storage.EventLogMock{
		PendingEventsFunc: func(ctx context.Context, limit int) ([]*models.Event, error) {
			l.mu.Lock()
			defer l.mu.Unlock()
			var out []*models.Event
			for _, e := range l.events {
				if e.Synced {
					continue
				}
				out = append(out, e)
				if limit > 0 && len(out) == limit {
					break
				}
			}
			return out, nil
		},
		MarkSyncedFunc: func(ctx context.Context, ids []string) error {
			l.mu.Lock()
			defer l.mu.Unlock()
			set := make(map[string]bool, len(ids))
			for _, id := range ids {
				set[id] = true
			}
			for _, e := range l.events {
				if set[e.ID] {
					e.Synced = true
				}
			}
			return nil
		},
		CountPendingFunc: func(ctx context.Context) (int, error) {
			l.mu.Lock()
			defer l.mu.Unlock()
			n := 0
			for _, e := range l.events {
				if !e.Synced {
					n++
				}
			}
			return n, nil
		},
	}
}

func memMeta(checkpoint *string) *storage.MetadataStorageMock {
	return &storage.MetadataStorageMock{
		GetCheckpointFunc: func(ctx context.Context) (string, error) {
			return *checkpoint, nil
		},
		SaveCheckpointFunc: func(ctx context.Context, cp string) error {
			*checkpoint = cp
			return nil
		},
	}
}

func okApplier() *ApplierMock {
	return &ApplierMock{
		ApplyBatchFunc: func(ctx context.Context, events []*models.Event, origin projector.Origin) (projector.BatchResult, error) {
			return projector.BatchResult{Applied: len(events)}, nil
		},
		AcknowledgeFunc: func(ctx context.Context, events []*models.Event) error {
			return nil
		},
	}
}

func disconnectedStream() *transport.StreamChannelMock {
	return &transport.StreamChannelMock{
		IsEnabledFunc:   func() bool { return true },
		IsConnectedFunc: func() bool { return false },
	}
}

type fixture struct {
	log      *memLog
	events   *storage.EventLogMock
	meta     *storage.MetadataStorageMock
	applier  *ApplierMock
	requests *transport.RequestChannelMock
	stream   *transport.StreamChannelMock
	retries  *retry.Manager
	manager  *Manager
	cp       string
}

func newFixture(t *testing.T, requests *transport.RequestChannelMock, stream *transport.StreamChannelMock) *fixture {
	t.Helper()

	f := &fixture{
		log:      &memLog{},
		applier:  okApplier(),
		requests: requests,
		stream:   stream,
	}
	f.events = f.log.mock()
	f.meta = memMeta(&f.cp)
	f.retries = retry.NewManager(retry.Config{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}, testLogger())

	cfg := DefaultConfig()
	cfg.BatchSize = 2
	f.manager = NewManager(cfg, f.events, f.meta, f.applier, f.requests, f.stream, f.retries, testLogger())
	t.Cleanup(f.manager.Close)

	return f
}

func TestPushEvents_EmptyBatch(t *testing.T) {
	httpMock := &transport.RequestChannelMock{}
	f := newFixture(t, httpMock, disconnectedStream())

	require.NoError(t, f.manager.PushEvents(context.Background(), nil))
	assert.Empty(t, httpMock.PushEventsCalls())
	assert.Empty(t, f.events.MarkSyncedCalls())
}

func TestPushEvents_StreamFailureIsIgnored(t *testing.T) {
	httpMock := &transport.RequestChannelMock{
		PushEventsFunc: func(ctx context.Context, events []*models.Event) error {
			return nil
		},
	}
	sent := make(chan struct{})
	stream := &transport.StreamChannelMock{
		IsEnabledFunc:   func() bool { return true },
		IsConnectedFunc: func() bool { return true },
		SendEventsFunc: func(ctx context.Context, events []*models.Event) error {
			defer close(sent)
			return errors.New("socket closed")
		},
	}
	f := newFixture(t, httpMock, stream)

	batch := []*models.Event{testEvent("e1"), testEvent("e2")}
	f.log.events = batch

	require.NoError(t, f.manager.PushEvents(context.Background(), batch))

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("stream send was not attempted")
	}

	assert.True(t, batch[0].Synced)
	assert.True(t, batch[1].Synced)
	require.Len(t, f.applier.AcknowledgeCalls(), 1)
}

func TestPushEvents_StreamSendDoesNotBlock(t *testing.T) {
	httpMock := &transport.RequestChannelMock{
		PushEventsFunc: func(ctx context.Context, events []*models.Event) error {
			return nil
		},
	}
	started := make(chan struct{})
	var sendErr error
	stream := &transport.StreamChannelMock{
		IsEnabledFunc:   func() bool { return true },
		IsConnectedFunc: func() bool { return true },
		SendEventsFunc: func(ctx context.Context, events []*models.Event) error {
			close(started)
			// висит, пока менеджер не закроется
			<-ctx.Done()
			sendErr = ctx.Err()
			return sendErr
		},
	}
	f := newFixture(t, httpMock, stream)

	batch := []*models.Event{testEvent("e1")}
	f.log.events = batch

	pushed := make(chan error, 1)
	go func() {
		pushed <- f.manager.PushEvents(context.Background(), batch)
	}()

	select {
	case err := <-pushed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("push waited for the stream send")
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("stream send was not attempted")
	}

	assert.True(t, batch[0].Synced)
	require.Len(t, f.applier.AcknowledgeCalls(), 1)

	// Close отменяет отправку и дожидается ее
	f.manager.Close()
	assert.ErrorIs(t, sendErr, context.Canceled)
}

func TestPushEvents_HTTPFailureKeepsEventsPending(t *testing.T) {
	httpMock := &transport.RequestChannelMock{
		PushEventsFunc: func(ctx context.Context, events []*models.Event) error {
			return syncerr.Server(syncerr.OpPush, http.StatusInternalServerError, "boom")
		},
	}
	stream := &transport.StreamChannelMock{
		IsEnabledFunc:   func() bool { return true },
		IsConnectedFunc: func() bool { return true },
		SendEventsFunc: func(ctx context.Context, events []*models.Event) error {
			return nil
		},
	}
	f := newFixture(t, httpMock, stream)
	f.log.events = []*models.Event{testEvent("e1")}

	pushed, err := f.manager.PushPending(context.Background())
	require.Error(t, err)
	assert.True(t, syncerr.IsRetryable(err))
	assert.Zero(t, pushed)

	assert.False(t, f.log.events[0].Synced)
	assert.Empty(t, f.events.MarkSyncedCalls())
	assert.Empty(t, f.applier.AcknowledgeCalls())

	state, ok := f.retries.State(PushRetryKey)
	require.True(t, ok)
	assert.Equal(t, 1, state.AttemptCount)
}

func TestPushPending_DrainsInBatches(t *testing.T) {
	var sizes []int
	httpMock := &transport.RequestChannelMock{
		PushEventsFunc: func(ctx context.Context, events []*models.Event) error {
			sizes = append(sizes, len(events))
			return nil
		},
	}
	f := newFixture(t, httpMock, disconnectedStream())
	for i := range 5 {
		f.log.events = append(f.log.events, testEvent(fmt.Sprintf("e%d", i)))
	}
	f.retries.RegisterFailure(PushRetryKey)

	pushed, err := f.manager.PushPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, pushed)
	assert.Equal(t, []int{2, 2, 1}, sizes)

	_, ok := f.retries.State(PushRetryKey)
	assert.False(t, ok, "successful push clears retry state")
	assert.Empty(t, f.stream.SendEventsCalls(), "disconnected stream is not used")
}

func TestPushPending_ValidationErrorIsNotRetried(t *testing.T) {
	httpMock := &transport.RequestChannelMock{
		PushEventsFunc: func(ctx context.Context, events []*models.Event) error {
			return syncerr.Server(syncerr.OpPush, http.StatusBadRequest, "bad event")
		},
	}
	f := newFixture(t, httpMock, disconnectedStream())
	f.log.events = []*models.Event{testEvent("e1")}

	_, err := f.manager.PushPending(context.Background())
	require.Error(t, err)

	_, ok := f.retries.State(PushRetryKey)
	assert.False(t, ok)
}

// streamOf returns a stream that delivers batches and fails after failAfter
// batches when failAfter >= 0.
func streamOf(batches [][]*models.Event, checkpoint string, failAfter *int) *transport.StreamChannelMock {
	return &transport.StreamChannelMock{
		IsEnabledFunc:   func() bool { return true },
		IsConnectedFunc: func() bool { return true },
		PullStreamFunc: func(ctx context.Context, since string, fn transport.BatchFunc) (*transport.StreamResult, error) {
			res := &transport.StreamResult{}
			for i, batch := range batches {
				if *failAfter >= 0 && i == *failAfter {
					return nil, syncerr.Transport(syncerr.OpPull, errors.New("connection reset"))
				}
				if err := fn(ctx, i, batch); err != nil {
					return nil, err
				}
				res.Batches++
				res.ProcessedEvents += len(batch)
			}
			res.NewCheckpoint = checkpoint
			return res, nil
		},
	}
}

func TestPull_StreamFailureKeepsCheckpoint(t *testing.T) {
	batches := [][]*models.Event{
		{testEvent("r1"), testEvent("r2")},
		{testEvent("r3")},
		{testEvent("r4")},
	}
	failAfter := 2
	f := newFixture(t, &transport.RequestChannelMock{}, streamOf(batches, "cp-4", &failAfter))
	f.cp = "cp-0"

	_, err := f.manager.Pull(context.Background())
	require.Error(t, err)
	assert.Equal(t, "cp-0", f.cp)
	assert.Len(t, f.applier.ApplyBatchCalls(), 2)
	assert.Empty(t, f.meta.SaveCheckpointCalls())

	failAfter = -1
	res, err := f.manager.Pull(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cp-4", f.cp)
	assert.Equal(t, "cp-4", res.NextCheckpoint)
	assert.True(t, res.Streamed)
	assert.Equal(t, 4, res.EventsProcessed)
	assert.Len(t, f.meta.SaveCheckpointCalls(), 1)

	for _, call := range f.applier.ApplyBatchCalls() {
		assert.Equal(t, projector.OriginRemote, call.Origin)
	}
}

func TestPull_StreamApplyErrorAborts(t *testing.T) {
	failAfter := -1
	f := newFixture(t, &transport.RequestChannelMock{}, streamOf([][]*models.Event{{testEvent("r1")}}, "cp-1", &failAfter))
	f.applier.ApplyBatchFunc = func(ctx context.Context, events []*models.Event, origin projector.Origin) (projector.BatchResult, error) {
		return projector.BatchResult{}, errors.New("disk full")
	}

	_, err := f.manager.Pull(context.Background())
	require.Error(t, err)
	assert.Empty(t, f.cp)
}

func TestPull_HTTPPages(t *testing.T) {
	pages := map[string]*transport.Page{
		"":   {Events: []*models.Event{testEvent("r1"), testEvent("r2")}, NextCursor: "c2", HasMore: true},
		"c2": {Events: []*models.Event{testEvent("r3")}, NextCursor: "c3", HasMore: false},
	}
	httpMock := &transport.RequestChannelMock{
		PullPageFunc: func(ctx context.Context, cursor string, limit int) (*transport.Page, error) {
			return pages[cursor], nil
		},
	}
	f := newFixture(t, httpMock, disconnectedStream())
	f.applier.ApplyBatchFunc = func(ctx context.Context, events []*models.Event, origin projector.Origin) (projector.BatchResult, error) {
		return projector.BatchResult{Applied: len(events), Conflicts: 1}, nil
	}

	res, err := f.manager.Pull(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.EventsProcessed)
	assert.Equal(t, 2, res.Conflicts)
	assert.Equal(t, "c3", res.NextCheckpoint)
	assert.False(t, res.HasMore)
	assert.Equal(t, "c3", f.cp)
	assert.Len(t, f.meta.SaveCheckpointCalls(), 2)

	calls := httpMock.PullPageCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, DefaultConfig().PageSize, calls[0].Limit)
}

func TestPull_HTTPFailureOnSecondPage(t *testing.T) {
	httpMock := &transport.RequestChannelMock{
		PullPageFunc: func(ctx context.Context, cursor string, limit int) (*transport.Page, error) {
			if cursor == "" {
				return &transport.Page{Events: []*models.Event{testEvent("r1")}, NextCursor: "c1", HasMore: true}, nil
			}
			return nil, syncerr.Transport(syncerr.OpPull, errors.New("eof"))
		},
	}
	f := newFixture(t, httpMock, disconnectedStream())

	_, err := f.manager.Pull(context.Background())
	require.Error(t, err)
	assert.Equal(t, "c1", f.cp, "checkpoint covers the applied page")
}

func TestPull_StuckCursor(t *testing.T) {
	httpMock := &transport.RequestChannelMock{
		PullPageFunc: func(ctx context.Context, cursor string, limit int) (*transport.Page, error) {
			return &transport.Page{NextCursor: "c1", HasMore: true}, nil
		},
	}
	f := newFixture(t, httpMock, disconnectedStream())
	f.cp = "c1"

	res, err := f.manager.Pull(context.Background())
	require.NoError(t, err)
	assert.True(t, res.HasMore)
	assert.Len(t, httpMock.PullPageCalls(), 1)
}

func TestSync_PullsAfterRetryablePushFailure(t *testing.T) {
	httpMock := &transport.RequestChannelMock{
		PushEventsFunc: func(ctx context.Context, events []*models.Event) error {
			return syncerr.Transport(syncerr.OpPush, errors.New("offline"))
		},
		PullPageFunc: func(ctx context.Context, cursor string, limit int) (*transport.Page, error) {
			return &transport.Page{NextCursor: "c1"}, nil
		},
	}
	f := newFixture(t, httpMock, disconnectedStream())
	f.log.events = []*models.Event{testEvent("e1")}

	res, err := f.manager.Sync(context.Background())
	require.Error(t, err)
	require.NotNil(t, res.Pull)
	assert.Equal(t, "c1", res.Pull.NextCheckpoint)
	assert.Zero(t, res.Pushed)
}

func TestSync_SkipsPullAfterNonRetryablePushFailure(t *testing.T) {
	httpMock := &transport.RequestChannelMock{
		PushEventsFunc: func(ctx context.Context, events []*models.Event) error {
			return syncerr.Validation(syncerr.OpPush, errors.New("bad payload"))
		},
		PullPageFunc: func(ctx context.Context, cursor string, limit int) (*transport.Page, error) {
			return &transport.Page{NextCursor: "c1"}, nil
		},
	}
	f := newFixture(t, httpMock, disconnectedStream())
	f.log.events = []*models.Event{testEvent("e1")}

	res, err := f.manager.Sync(context.Background())
	require.Error(t, err)
	assert.True(t, syncerr.IsValidation(err))
	assert.Nil(t, res.Pull)
	assert.Empty(t, httpMock.PullPageCalls())
	assert.Empty(t, f.cp)
}

func TestPull_SharedCallerCancelDoesNotFailOthers(t *testing.T) {
	entered := make(chan struct{})
	var calls int
	var mu sync.Mutex
	httpMock := &transport.RequestChannelMock{
		PullPageFunc: func(ctx context.Context, cursor string, limit int) (*transport.Page, error) {
			mu.Lock()
			calls++
			n := calls
			mu.Unlock()
			if n == 1 {
				close(entered)
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return &transport.Page{NextCursor: "c1"}, nil
		},
	}
	f := newFixture(t, httpMock, disconnectedStream())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.manager.Pull(firstCtx)
		firstErr <- err
	}()
	<-entered

	type outcome struct {
		res *PullResult
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		res, err := f.manager.Pull(context.Background())
		second <- outcome{res, err}
	}()

	// второй вызов успевает присоединиться к общему pull
	time.Sleep(50 * time.Millisecond)
	cancelFirst()

	assert.ErrorIs(t, <-firstErr, context.Canceled)

	select {
	case out := <-second:
		require.NoError(t, out.err)
		assert.Equal(t, "c1", out.res.NextCheckpoint)
	case <-time.After(time.Second):
		t.Fatal("second pull did not finish")
	}
	assert.Equal(t, "c1", f.cp)
}

func TestStatus(t *testing.T) {
	f := newFixture(t, &transport.RequestChannelMock{}, disconnectedStream())
	f.log.events = []*models.Event{testEvent("e1"), testEvent("e2")}
	f.log.events[0].Synced = true
	f.cp = "c9"

	status, err := f.manager.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.Pending)
	assert.Equal(t, "c9", status.Checkpoint)
	assert.True(t, status.StreamEnabled)
	assert.False(t, status.StreamConnected)
	assert.Nil(t, status.PushRetry)

	f.retries.RegisterFailure(PushRetryKey)
	status, err = f.manager.Status(context.Background())
	require.NoError(t, err)
	require.NotNil(t, status.PushRetry)
	assert.Equal(t, 1, status.PushRetry.AttemptCount)
}

func TestRetryPush_RunsPush(t *testing.T) {
	httpMock := &transport.RequestChannelMock{
		PushEventsFunc: func(ctx context.Context, events []*models.Event) error {
			return nil
		},
	}
	f := newFixture(t, httpMock, disconnectedStream())
	f.log.events = []*models.Event{testEvent("e1")}
	f.retries.RegisterFailure(PushRetryKey)

	require.NoError(t, f.manager.RetryPush(context.Background()))
	assert.True(t, f.log.events[0].Synced)
	_, ok := f.retries.State(PushRetryKey)
	assert.False(t, ok)
}
