// Package sync orchestrates push and pull cycles between the local event log
// and the server.
//
// Push is a dual-send: a fire-and-forget copy over the stream for latency and
// an authoritative HTTP request that decides whether events are synced.
// Pull feeds remote batches to the projector strictly in order; the
// checkpoint moves only after a batch has been fully projected.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	goretry "github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/iudanet/dequeuesync/internal/client/projector"
	"github.com/iudanet/dequeuesync/internal/client/retry"
	"github.com/iudanet/dequeuesync/internal/client/storage"
	"github.com/iudanet/dequeuesync/internal/client/transport"
	"github.com/iudanet/dequeuesync/internal/models"
	"github.com/iudanet/dequeuesync/internal/syncerr"
)

// PushRetryKey ключ RetryManager для push
const PushRetryKey = "push"

// Config параметры синхронизации
type Config struct {
	BatchSize      int           // событий в одном push
	PageSize       int           // событий на странице HTTP pull
	Interval       time.Duration // период фонового Sync в Run
	RequestTimeout time.Duration // ограничение одного HTTP вызова
	StreamTimeout  time.Duration // ограничение fire-and-forget отправки и потокового pull
	StreamPull     bool          // pull через stream, когда он подключен
}

// DefaultConfig значения по умолчанию
func DefaultConfig() Config {
	return Config{
		BatchSize:      100,
		PageSize:       200,
		Interval:       30 * time.Second,
		RequestTimeout: 30 * time.Second,
		StreamTimeout:  2 * time.Minute,
		StreamPull:     true,
	}
}

// PullResult итог одного pull
type PullResult struct {
	NextCheckpoint  string
	EventsProcessed int
	Skipped         int
	Conflicts       int
	HasMore         bool
	Streamed        bool
}

// SyncResult итог полного цикла
type SyncResult struct {
	Pull   *PullResult
	Pushed int
}

// Status состояние синхронизации для UI
type Status struct {
	PushRetry       *retry.State // nil, если push не падал
	Checkpoint      string
	Pending         int
	StreamEnabled   bool
	StreamConnected bool
}

// Manager owns the checkpoint and drives push and pull.
type Manager struct {
	events   storage.EventLog
	meta     storage.MetadataStorage
	applier  Applier
	http     transport.RequestChannel
	stream   transport.StreamChannel
	retry    *retry.Manager
	logger   *slog.Logger
	detached context.Context
	cancel   context.CancelFunc
	pulls    singleflight.Group
	sends    sync.WaitGroup
	cfg      Config
	pushMu   sync.Mutex
	pullMu   sync.Mutex
}

// NewManager creates a Manager. retries is owned by the manager from now on:
// its handler is replaced and Close closes it.
func NewManager(
	cfg Config,
	events storage.EventLog,
	meta storage.MetadataStorage,
	applier Applier,
	http transport.RequestChannel,
	stream transport.StreamChannel,
	retries *retry.Manager,
	logger *slog.Logger,
) *Manager {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultConfig().PageSize
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.StreamTimeout <= 0 {
		cfg.StreamTimeout = DefaultConfig().StreamTimeout
	}

	detached, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:      cfg,
		events:   events,
		meta:     meta,
		applier:  applier,
		http:     http,
		stream:   stream,
		retry:    retries,
		logger:   logger,
		detached: detached,
		cancel:   cancel,
	}

	retries.SetHandler(func(ctx context.Context, key string) error {
		_, err := m.PushPending(ctx)
		return err
	})

	return m
}

// PushEvents sends batch over both channels. Only the HTTP result matters:
// on success every event is marked synced, on failure they stay pending.
func (m *Manager) PushEvents(ctx context.Context, batch []*models.Event) error {
	if len(batch) == 0 {
		return nil
	}

	if m.stream != nil && m.stream.IsEnabled() && m.stream.IsConnected() {
		m.sendDetached(batch)
	}

	reqCtx, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout)
	defer cancel()

	if err := m.http.PushEvents(reqCtx, batch); err != nil {
		return fmt.Errorf("push %d events: %w", len(batch), err)
	}

	if err := m.events.MarkSynced(ctx, models.IDs(batch)); err != nil {
		return fmt.Errorf("failed to mark events synced: %w", err)
	}
	if err := m.applier.Acknowledge(ctx, batch); err != nil {
		return fmt.Errorf("failed to acknowledge events: %w", err)
	}

	m.logger.Debug("batch pushed", slog.Int("count", len(batch)))
	return nil
}

// sendDetached отправляет копию пачки через stream вне критического пути push.
// Ошибка только логируется.
func (m *Manager) sendDetached(batch []*models.Event) {
	events := make([]*models.Event, len(batch))
	copy(events, batch)

	m.sends.Add(1)
	go func() {
		defer m.sends.Done()

		ctx, cancel := context.WithTimeout(m.detached, m.cfg.StreamTimeout)
		defer cancel()

		if err := m.stream.SendEvents(ctx, events); err != nil {
			m.logger.Warn("stream push failed", slog.Int("count", len(events)), slog.Any("error", err))
		}
	}()
}

// PushPending drains the event log in batches. A retryable failure is
// registered with the push retry state; success clears it.
func (m *Manager) PushPending(ctx context.Context) (int, error) {
	m.pushMu.Lock()
	defer m.pushMu.Unlock()

	pushed := 0
	for {
		batch, err := m.events.PendingEvents(ctx, m.cfg.BatchSize)
		if err != nil {
			return pushed, fmt.Errorf("failed to read pending events: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		if err := m.PushEvents(ctx, batch); err != nil {
			if syncerr.IsRetryable(err) {
				state := m.retry.RegisterFailure(PushRetryKey)
				m.logger.Warn("push failed, will retry",
					slog.Int("attempt", state.AttemptCount),
					slog.Time("next_retry_at", state.NextRetryAt),
					slog.Any("error", err))
			}
			return pushed, err
		}

		pushed += len(batch)
		if len(batch) < m.cfg.BatchSize {
			break
		}
	}

	m.retry.ClearRetryState(PushRetryKey)
	if pushed > 0 {
		m.logger.Info("pending events pushed", slog.Int("count", pushed))
	}
	return pushed, nil
}

// RetryPush is the manual retry affordance for push
func (m *Manager) RetryPush(ctx context.Context) error {
	return m.retry.ManualRetry(ctx, PushRetryKey)
}

// Pull fetches and projects remote events after the saved checkpoint.
// Concurrent callers share one in-flight pull. The shared pull runs with the
// first caller's ctx; if that ctx ends it, a caller whose own ctx is still
// live pulls once more.
func (m *Manager) Pull(ctx context.Context) (*PullResult, error) {
	for attempt := 0; ; attempt++ {
		v, err, shared := m.pulls.Do("pull", func() (any, error) {
			return m.pull(ctx)
		})
		if err != nil {
			if shared && attempt == 0 && ctx.Err() == nil && isContextErr(err) {
				continue
			}
			return nil, err
		}
		return v.(*PullResult), nil
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (m *Manager) pull(ctx context.Context) (*PullResult, error) {
	m.pullMu.Lock()
	defer m.pullMu.Unlock()

	since, err := m.meta.GetCheckpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	if m.cfg.StreamPull && m.stream != nil && m.stream.IsEnabled() && m.stream.IsConnected() {
		return m.pullStream(ctx, since)
	}
	return m.pullPages(ctx, since)
}

func (m *Manager) pullStream(ctx context.Context, since string) (*PullResult, error) {
	result := &PullResult{NextCheckpoint: since, Streamed: true}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.StreamTimeout)
	defer cancel()

	streamed, err := m.stream.PullStream(ctx, since, func(ctx context.Context, batchIndex int, events []*models.Event) error {
		applied, err := m.applier.ApplyBatch(ctx, events, projector.OriginRemote)
		if err != nil {
			return fmt.Errorf("failed to apply batch %d: %w", batchIndex, err)
		}
		result.EventsProcessed += applied.Applied
		result.Skipped += applied.Skipped
		result.Conflicts += applied.Conflicts

		m.logger.Debug("stream batch applied",
			slog.Int("batch_index", batchIndex),
			slog.Int("events", len(events)))
		return nil
	})
	if err != nil {
		// checkpoint не меняется: повторный pull безопасен
		m.logger.Warn("stream pull failed",
			slog.String("checkpoint", since),
			slog.Int("applied", result.EventsProcessed),
			slog.Any("error", err))
		return nil, err
	}

	if streamed.NewCheckpoint != "" && streamed.NewCheckpoint != since {
		if err := m.meta.SaveCheckpoint(ctx, streamed.NewCheckpoint); err != nil {
			return nil, fmt.Errorf("failed to save checkpoint: %w", err)
		}
		result.NextCheckpoint = streamed.NewCheckpoint
	}

	m.logger.Info("stream pull completed",
		slog.Int("events", result.EventsProcessed),
		slog.Int("batches", streamed.Batches),
		slog.String("checkpoint", result.NextCheckpoint))

	return result, nil
}

func (m *Manager) pullPages(ctx context.Context, since string) (*PullResult, error) {
	result := &PullResult{NextCheckpoint: since}
	cursor := since

	for {
		reqCtx, cancel := context.WithTimeout(ctx, m.cfg.RequestTimeout)
		page, err := m.http.PullPage(reqCtx, cursor, m.cfg.PageSize)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("pull after %q: %w", cursor, err)
		}

		applied, err := m.applier.ApplyBatch(ctx, page.Events, projector.OriginRemote)
		if err != nil {
			return nil, fmt.Errorf("failed to apply page after %q: %w", cursor, err)
		}
		result.EventsProcessed += applied.Applied
		result.Skipped += applied.Skipped
		result.Conflicts += applied.Conflicts

		// страница применена целиком, можно двигать checkpoint
		if page.NextCursor != "" && page.NextCursor != cursor {
			if err := m.meta.SaveCheckpoint(ctx, page.NextCursor); err != nil {
				return nil, fmt.Errorf("failed to save checkpoint: %w", err)
			}
			result.NextCheckpoint = page.NextCursor
		}

		if !page.HasMore {
			break
		}
		if page.NextCursor == cursor || page.NextCursor == "" {
			m.logger.Warn("server reported more events without advancing cursor", slog.String("cursor", cursor))
			result.HasMore = true
			break
		}
		cursor = page.NextCursor
	}

	m.logger.Info("pull completed",
		slog.Int("events", result.EventsProcessed),
		slog.Int("skipped", result.Skipped),
		slog.String("checkpoint", result.NextCheckpoint))

	return result, nil
}

// Sync pushes pending events and then pulls. A retryable push failure still
// lets the pull run and both errors are returned; a non-retryable one skips
// the pull.
func (m *Manager) Sync(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{}

	pushed, pushErr := m.PushPending(ctx)
	result.Pushed = pushed
	if pushErr != nil && !syncerr.IsRetryable(pushErr) {
		return result, pushErr
	}

	pull, pullErr := m.Pull(ctx)
	result.Pull = pull

	return result, errors.Join(pushErr, pullErr)
}

// Status reports pending count, checkpoint and retry state
func (m *Manager) Status(ctx context.Context) (*Status, error) {
	pending, err := m.events.CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending events: %w", err)
	}
	checkpoint, err := m.meta.GetCheckpoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}

	status := &Status{
		Pending:    pending,
		Checkpoint: checkpoint,
	}
	if m.stream != nil {
		status.StreamEnabled = m.stream.IsEnabled()
		status.StreamConnected = m.stream.IsConnected()
	}
	if state, ok := m.retry.State(PushRetryKey); ok {
		status.PushRetry = &state
	}
	return status, nil
}

// Run syncs periodically and pulls on stream notifications until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return m.runPeriodic(ctx)
	})

	if m.stream != nil && m.stream.IsEnabled() {
		g.Go(func() error {
			return m.runStream(ctx)
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (m *Manager) runPeriodic(ctx context.Context) error {
	interval := m.cfg.Interval
	if interval <= 0 {
		interval = DefaultConfig().Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := m.Sync(ctx); err != nil && ctx.Err() == nil {
			m.logger.Warn("sync cycle failed", slog.String("status", syncerr.UserMessage(err)), slog.Any("error", err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// runStream поддерживает соединение и выполняет pull на каждое уведомление
func (m *Manager) runStream(ctx context.Context) error {
	reconnect := newReconnectBackoff()

	for {
		if !m.stream.IsConnected() {
			if err := m.stream.Connect(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				delay, _ := reconnect.Next()
				m.logger.Warn("stream connect failed", slog.Duration("retry_in", delay), slog.Any("error", err))

				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(delay):
				}
				continue
			}
			reconnect = newReconnectBackoff()
			// пропущенные пока соединения не было события
			m.pullLogged(ctx)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.stream.Notifications():
			m.pullLogged(ctx)
		case <-time.After(time.Second):
			// периодически проверяем, живо ли соединение
		}
	}
}

func (m *Manager) pullLogged(ctx context.Context) {
	if _, err := m.Pull(ctx); err != nil && ctx.Err() == nil {
		m.logger.Warn("pull failed", slog.Any("error", err))
	}
}

func newReconnectBackoff() goretry.Backoff {
	return goretry.WithCappedDuration(time.Minute, goretry.WithJitterPercent(10, goretry.NewExponential(time.Second)))
}

// Close stops retry timers and waits for detached stream sends
func (m *Manager) Close() {
	m.retry.Close()
	m.cancel()
	m.sends.Wait()
}
