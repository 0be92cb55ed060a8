// Package retry tracks per-key exponential backoff for retryable units of work.
//
// A Manager is owned by exactly one coordinator (push, uploads); states are
// never shared between managers and live only for the process lifetime.
package retry

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/iudanet/dequeuesync/internal/client/network"
)

// ErrClosed returned after Close
var ErrClosed = errors.New("retry manager is closed")

// Config параметры backoff
type Config struct {
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// DefaultConfig значения по умолчанию
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Validate checks config
func (c Config) Validate() error {
	if c.MaxAttempts <= 0 {
		return errors.New("retry: max_attempts must be positive")
	}
	if c.BaseDelay <= 0 {
		return errors.New("retry: base_delay must be positive")
	}
	if c.MaxDelay < c.BaseDelay {
		return errors.New("retry: max_delay must not be less than base_delay")
	}
	return nil
}

// Delay returns min(BaseDelay * 2^attempt, MaxDelay) for a zero-based attempt.
func (c Config) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// сдвиг переполнится раньше, чем дойдет до MaxDelay
	if attempt >= 62 || c.BaseDelay > c.MaxDelay>>uint(attempt) {
		return c.MaxDelay
	}
	return min(c.BaseDelay<<uint(attempt), c.MaxDelay)
}

// State snapshot of a retryable unit of work.
type State struct {
	LastAttemptAt time.Time // zero if never attempted
	NextRetryAt   time.Time // zero if nothing scheduled
	Key           string
	AttemptCount  int
}

// Handler re-runs the unit of work identified by key.
type Handler func(ctx context.Context, key string) error

type entry struct {
	timer Timer
	state State
}

// Manager tracks failures per key and schedules the handler at NextRetryAt.
type Manager struct {
	clock   Clock
	monitor network.Monitor
	handler Handler
	logger  *slog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	entries map[string]*entry
	cfg     Config
	mu      sync.Mutex
	closed  bool
}

// Option настраивает Manager
type Option func(*Manager)

// WithClock подменяет источник времени (для тестов)
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithMonitor задает наблюдателя сети; без него транспорт считается доступным
func WithMonitor(mon network.Monitor) Option {
	return func(m *Manager) { m.monitor = mon }
}

// NewManager creates a Manager
func NewManager(cfg Config, logger *slog.Logger, opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		cfg:     cfg,
		clock:   SystemClock{},
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetHandler registers the function invoked on scheduled and manual retries.
func (m *Manager) SetHandler(h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = h
}

// Config returns the backoff configuration
func (m *Manager) Config() Config {
	return m.cfg
}

// Delay is Config.Delay
func (m *Manager) Delay(attempt int) time.Duration {
	return m.cfg.Delay(attempt)
}

// RegisterFailure increments the attempt count and schedules the next retry.
// Once the count reaches MaxAttempts the state is frozen and the call is a no-op.
func (m *Manager) RegisterFailure(key string) State {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		e = &entry{state: State{Key: key}}
		m.entries[key] = e
	}
	if m.closed || e.state.AttemptCount >= m.cfg.MaxAttempts {
		return e.state
	}

	now := m.clock.Now()
	e.state.AttemptCount++
	e.state.LastAttemptAt = now

	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}

	if e.state.AttemptCount >= m.cfg.MaxAttempts {
		// исчерпали попытки: дальше только ручной retry
		e.state.NextRetryAt = time.Time{}
		m.logger.Warn("retry attempts exhausted",
			slog.String("key", key),
			slog.Int("attempts", e.state.AttemptCount))
		return e.state
	}

	delay := m.cfg.Delay(e.state.AttemptCount - 1)
	e.state.NextRetryAt = now.Add(delay)
	e.timer = m.clock.AfterFunc(delay, func() { m.fire(key, e) })

	m.logger.Debug("retry scheduled",
		slog.String("key", key),
		slog.Int("attempt", e.state.AttemptCount),
		slog.Duration("delay", delay))

	return e.state
}

func (m *Manager) fire(key string, scheduled *entry) {
	m.mu.Lock()
	// состояние могли сбросить или пересоздать, пока таймер ждал
	if m.closed || m.entries[key] != scheduled || scheduled.timer == nil {
		m.mu.Unlock()
		return
	}
	scheduled.timer = nil
	scheduled.state.NextRetryAt = time.Time{}
	handler := m.handler
	m.mu.Unlock()

	if handler == nil || !m.transportAvailable() {
		return
	}
	if err := handler(m.ctx, key); err != nil {
		m.logger.Debug("scheduled retry failed", slog.String("key", key), slog.Any("error", err))
	}
}

// CanRetry reports whether automatic retries remain for key.
func (m *Manager) CanRetry(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	return !ok || e.state.AttemptCount < m.cfg.MaxAttempts
}

// Scheduled reports whether an automatic retry for key is still waiting for its timer.
func (m *Manager) Scheduled(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	return ok && e.timer != nil
}

// State returns a snapshot for key
func (m *Manager) State(key string) (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return State{}, false
	}
	return e.state, true
}

// States returns all snapshots ordered by key
func (m *Manager) States() []State {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]State, 0, len(m.entries))
	for _, key := range slices.Sorted(maps.Keys(m.entries)) {
		result = append(result, m.entries[key].state)
	}
	return result
}

// ManualRetry resets the attempt count to zero and invokes the handler right
// away if the transport is available. Otherwise the reset state waits for the
// next automatic attempt.
func (m *Manager) ManualRetry(ctx context.Context, key string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	e, ok := m.entries[key]
	if !ok {
		e = &entry{state: State{Key: key}}
		m.entries[key] = e
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.state.AttemptCount = 0
	e.state.NextRetryAt = time.Time{}
	handler := m.handler
	m.mu.Unlock()

	if handler == nil || !m.transportAvailable() {
		m.logger.Info("manual retry deferred", slog.String("key", key))
		return nil
	}
	return handler(ctx, key)
}

// ClearRetryState removes all state for key (success or cancellation).
func (m *Manager) ClearRetryState(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(m.entries, key)
	}
}

// Close cancels every scheduled retry. Handlers in flight see a cancelled context.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	for _, e := range m.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
	}
	m.cancel()
}

func (m *Manager) transportAvailable() bool {
	return m.monitor == nil || m.monitor.IsConnected()
}
