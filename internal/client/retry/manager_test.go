package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/dequeuesync/internal/client/network"
)

// fakeClock управляемые часы: таймеры срабатывают только в Advance
type fakeClock struct {
	now    time.Time
	timers []*fakeTimer
	mu     sync.Mutex
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

func (c *fakeClock) active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDelay_Exponential(t *testing.T) {
	cfg := Config{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 30 * time.Second}

	expected := []time.Duration{1, 2, 4, 8, 16}
	for n, want := range expected {
		assert.Equal(t, want*time.Second, cfg.Delay(n), "attempt %d", n)
	}

	capped := Config{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
	assert.Equal(t, 10*time.Second, capped.Delay(5))
	assert.Equal(t, 8*time.Second, capped.Delay(3))

	// большие номера попыток не переполняются
	assert.Equal(t, 30*time.Second, cfg.Delay(64))
	assert.Equal(t, 30*time.Second, cfg.Delay(1000))
	assert.Equal(t, time.Second, cfg.Delay(-1))
}

func TestRegisterFailure_SchedulesAndCaps(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(Config{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: time.Minute}, testLogger(), WithClock(clock))
	defer m.Close()

	start := clock.Now()

	st := m.RegisterFailure("a1")
	assert.Equal(t, 1, st.AttemptCount)
	assert.Equal(t, start, st.LastAttemptAt)
	assert.Equal(t, start.Add(time.Second), st.NextRetryAt)
	assert.True(t, m.CanRetry("a1"))

	st = m.RegisterFailure("a1")
	assert.Equal(t, 2, st.AttemptCount)
	assert.Equal(t, start.Add(2*time.Second), st.NextRetryAt)
	assert.Equal(t, 1, clock.active(), "previous timer must be replaced")

	st = m.RegisterFailure("a1")
	assert.Equal(t, 3, st.AttemptCount)
	assert.False(t, m.CanRetry("a1"))
	assert.True(t, st.NextRetryAt.IsZero())
	assert.Zero(t, clock.active())

	// Дальнейшие ошибки не увеличивают счетчик
	for range 5 {
		st = m.RegisterFailure("a1")
	}
	assert.Equal(t, 3, st.AttemptCount)

	require.NoError(t, m.ManualRetry(context.Background(), "a1"))
	st, ok := m.State("a1")
	require.True(t, ok)
	assert.Equal(t, 0, st.AttemptCount)
	assert.True(t, m.CanRetry("a1"))
}

func TestScheduledRetry_InvokesHandler(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(Config{MaxAttempts: 5, BaseDelay: time.Second, MaxDelay: time.Minute}, testLogger(), WithClock(clock))
	defer m.Close()

	var calls []string
	m.SetHandler(func(ctx context.Context, key string) error {
		calls = append(calls, key)
		return nil
	})

	m.RegisterFailure("push")
	clock.Advance(500 * time.Millisecond)
	assert.Empty(t, calls)

	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, []string{"push"}, calls)

	st, _ := m.State("push")
	assert.True(t, st.NextRetryAt.IsZero())
	assert.Equal(t, 1, st.AttemptCount, "success is reported by ClearRetryState, not by firing")
}

func TestScheduled(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(Config{MaxAttempts: 2, BaseDelay: time.Second, MaxDelay: time.Minute}, testLogger(), WithClock(clock))
	defer m.Close()

	assert.False(t, m.Scheduled("a1"))

	m.RegisterFailure("a1")
	assert.True(t, m.Scheduled("a1"))

	clock.Advance(time.Second)
	assert.False(t, m.Scheduled("a1"), "fired timer is no longer scheduled")

	m.RegisterFailure("a1")
	assert.False(t, m.Scheduled("a1"), "exhausted key has no timer")

	m.RegisterFailure("b1")
	m.ClearRetryState("b1")
	assert.False(t, m.Scheduled("b1"))
}

func TestScheduledRetry_SkippedWhenOffline(t *testing.T) {
	clock := newFakeClock()
	mon := network.NewStaticMonitor(network.ClassNone)
	m := NewManager(DefaultConfig(), testLogger(), WithClock(clock), WithMonitor(mon))
	defer m.Close()

	called := false
	m.SetHandler(func(ctx context.Context, key string) error {
		called = true
		return nil
	})

	m.RegisterFailure("k")
	clock.Advance(time.Minute)
	assert.False(t, called)
}

func TestManualRetry_DefersWhenOffline(t *testing.T) {
	mon := network.NewStaticMonitor(network.ClassNone)
	m := NewManager(DefaultConfig(), testLogger(), WithClock(newFakeClock()), WithMonitor(mon))
	defer m.Close()

	called := 0
	m.SetHandler(func(ctx context.Context, key string) error {
		called++
		return errors.New("still failing")
	})

	m.RegisterFailure("k")
	m.RegisterFailure("k")

	require.NoError(t, m.ManualRetry(context.Background(), "k"))
	assert.Zero(t, called)
	st, _ := m.State("k")
	assert.Zero(t, st.AttemptCount)

	mon.Set(network.ClassWiFi)
	err := m.ManualRetry(context.Background(), "k")
	assert.EqualError(t, err, "still failing")
	assert.Equal(t, 1, called)
}

func TestClearRetryState_CancelsTimer(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(DefaultConfig(), testLogger(), WithClock(clock))
	defer m.Close()

	called := false
	m.SetHandler(func(ctx context.Context, key string) error {
		called = true
		return nil
	})

	m.RegisterFailure("k")
	m.ClearRetryState("k")

	_, ok := m.State("k")
	assert.False(t, ok)
	assert.True(t, m.CanRetry("k"))

	clock.Advance(time.Hour)
	assert.False(t, called)
}

func TestClose_StopsTimers(t *testing.T) {
	clock := newFakeClock()
	m := NewManager(DefaultConfig(), testLogger(), WithClock(clock))

	called := false
	m.SetHandler(func(ctx context.Context, key string) error {
		called = true
		return nil
	})

	m.RegisterFailure("a")
	m.RegisterFailure("b")
	m.Close()
	m.Close()

	clock.Advance(time.Hour)
	assert.False(t, called)
	assert.Zero(t, clock.active())
	assert.ErrorIs(t, m.ManualRetry(context.Background(), "a"), ErrClosed)
}

func TestStates_Sorted(t *testing.T) {
	m := NewManager(DefaultConfig(), testLogger(), WithClock(newFakeClock()))
	defer m.Close()

	m.RegisterFailure("b")
	m.RegisterFailure("a")

	states := m.States()
	require.Len(t, states, 2)
	assert.Equal(t, "a", states[0].Key)
	assert.Equal(t, "b", states[1].Key)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{MaxAttempts: 0, BaseDelay: time.Second, MaxDelay: time.Second}.Validate())
	assert.Error(t, Config{MaxAttempts: 1, BaseDelay: 0, MaxDelay: time.Second}.Validate())
	assert.Error(t, Config{MaxAttempts: 1, BaseDelay: time.Minute, MaxDelay: time.Second}.Validate())
}
