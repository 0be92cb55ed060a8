package cli

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/client/iocli"
	clientsync "github.com/iudanet/dequeuesync/internal/client/sync"
	"github.com/iudanet/dequeuesync/internal/config"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

func TestPushCommand(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	h.syncer.PushPendingFunc = func(ctx context.Context) (int, error) {
		return 3, nil
	}

	out := h.mustRun(t, "push")
	assert.Contains(t, out, "Pushed 3 event(s)")

	h.syncer.PushPendingFunc = func(ctx context.Context) (int, error) {
		return 0, nil
	}
	out = h.mustRun(t, "push")
	assert.Contains(t, out, "Nothing to push")
}

func TestPullCommand(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	h.syncer.PullFunc = func(ctx context.Context) (*clientsync.PullResult, error) {
		return &clientsync.PullResult{EventsProcessed: 4, Skipped: 1, Conflicts: 2, HasMore: true, Streamed: true}, nil
	}

	out := h.mustRun(t, "pull")
	assert.Contains(t, out, "Pulled 4 event(s) via stream, skipped 1, conflicts 2")
	assert.Contains(t, out, "More events are available")
}

func TestSyncCommand_PartialFailure(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	offline := syncerr.Transport(syncerr.OpPush, errors.New("connection refused"))
	h.syncer.SyncFunc = func(ctx context.Context) (*clientsync.SyncResult, error) {
		return &clientsync.SyncResult{Pull: &clientsync.PullResult{EventsProcessed: 2}}, offline
	}

	out, err := h.run(t, "sync")
	require.Error(t, err)
	assert.Contains(t, out, "Pushed 0 event(s)")
	assert.Contains(t, out, "Pulled 2 event(s) via http")
	assert.Equal(t, syncerr.UserMessage(offline), Explain(err))
}

func TestRetryCommand(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	h.syncer.RetryPushFunc = func(ctx context.Context) error { return nil }

	out := h.mustRun(t, "retry")
	assert.Contains(t, out, "Push retried")
	assert.Len(t, h.syncer.RetryPushCalls(), 1)
}

func TestWatchCommand_StopsOnCancel(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	h.syncer.RunFunc = func(ctx context.Context) error {
		return context.Canceled
	}

	out := h.mustRun(t, "watch")
	assert.Contains(t, out, "Watching for changes")
	assert.Contains(t, out, "Stopped")
}

func TestWatchCommand_ReturnsRunError(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")
	h.syncer.RunFunc = func(ctx context.Context) error {
		return errors.New("boom")
	}

	_, err := h.run(t, "watch")
	assert.EqualError(t, err, "boom")
}

func TestConflictsCommand(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1")

	out := h.mustRun(t, "conflicts")
	assert.Contains(t, out, "No conflicts")

	// запись конфликта через хранилище открытого клиента
	h.opts.Open = withStore(h.opts.Open, func(ctx context.Context, app *App) error {
		return app.conflicts.RecordConflict(ctx, &models.SyncConflict{
			EntityType:   models.KindTask,
			EntityID:     "t1",
			EventID:      "e1",
			ConflictType: models.ConflictUpdate,
			Resolution:   models.ResolutionKeptLocal,
			Fields:       []string{"title"},
		})
	})

	out = h.mustRun(t, "conflicts")
	assert.Contains(t, out, "task t1  update  event e1")
	assert.Contains(t, out, "[title]")
}

func TestExplain(t *testing.T) {
	assert.Equal(t, syncerr.UserMessage(syncerr.ErrTokenExpired), Explain(syncerr.ErrTokenExpired))
	assert.Equal(t, syncerr.UserMessage(syncerr.ErrUnauthorized), Explain(syncerr.ErrUnauthorized))

	server := syncerr.Server(syncerr.OpPush, 400, "bad request")
	assert.Equal(t, syncerr.UserMessage(server), Explain(server))

	plain := errors.New("task t1 not found")
	assert.Equal(t, "task t1 not found", Explain(plain))
}

// withStore выполняет fn над только что открытым клиентом
func withStore(open Opener, fn func(ctx context.Context, app *App) error) Opener {
	return func(ctx context.Context, cfg config.Client, console iocli.IO, logger *slog.Logger) (*App, error) {
		app, err := open(ctx, cfg, console, logger)
		if err != nil {
			return nil, err
		}
		if err := fn(ctx, app); err != nil {
			_ = app.Close()
			return nil, err
		}
		return app, nil
	}
}
