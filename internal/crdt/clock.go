package crdt

import (
	"sync"
	"time"
)

// Tick минимальный шаг часов. Миллисекунда, чтобы порядок переживал
// кодирование в payload версии 1 (unix milliseconds).
const Tick = time.Millisecond

// Clock выдает строго возрастающие timestamps для локальных событий.
// Как и часы Лампорта, учитывает увиденные удаленные timestamps:
// локальная правка, сделанная после применения удаленного события,
// всегда получает больший timestamp, даже если системные часы отстают.
type Clock struct {
	last time.Time
	now  func() time.Time
	mu   sync.Mutex
}

// NewClock создает часы на основе системного времени.
func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

// NewClockWithSource создает часы с заданным источником времени.
// Используется в тестах.
func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Now возвращает следующий timestamp: max(системное время, последний + Tick).
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(Tick)
	if !t.After(c.last) {
		t = c.last.Add(Tick)
	}
	c.last = t

	return t
}

// Observe учитывает timestamp удаленного события.
func (c *Clock) Observe(remote time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if remote.After(c.last) {
		c.last = remote.UTC()
	}
}

// Last возвращает последний выданный или увиденный timestamp.
func (c *Clock) Last() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last
}
