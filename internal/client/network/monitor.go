// Package network exposes the current network class as an injectable capability.
package network

import (
	"fmt"
	"sync"
)

//go:generate moq -out monitor_mock.go . Monitor

// Class тип активного соединения
type Class string

const (
	ClassNone     Class = "none"
	ClassWiFi     Class = "wifi"
	ClassCellular Class = "cellular"
)

// ParseClass разбирает значение из конфигурации или флага
func ParseClass(s string) (Class, error) {
	switch c := Class(s); c {
	case ClassNone, ClassWiFi, ClassCellular:
		return c, nil
	default:
		return "", fmt.Errorf("unknown network class %q (want none, wifi or cellular)", s)
	}
}

// Monitor observes the network class.
type Monitor interface {
	IsWiFi() bool
	IsCellular() bool
	IsConnected() bool
}

// StaticMonitor is a Monitor whose class is set explicitly.
// The CLI sets it from configuration; tests flip it to simulate transitions.
type StaticMonitor struct {
	subscribers []func(from, to Class)
	class       Class
	mu          sync.RWMutex
}

// NewStaticMonitor creates a monitor with initial class
func NewStaticMonitor(class Class) *StaticMonitor {
	return &StaticMonitor{class: class}
}

// Class returns current class
func (m *StaticMonitor) Class() Class {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.class
}

// Set changes class and notifies subscribers if it changed
func (m *StaticMonitor) Set(class Class) {
	m.mu.Lock()
	from := m.class
	m.class = class
	subs := append([]func(from, to Class){}, m.subscribers...)
	m.mu.Unlock()

	if from == class {
		return
	}
	for _, fn := range subs {
		fn(from, class)
	}
}

// Subscribe registers fn to be called on every class change
func (m *StaticMonitor) Subscribe(fn func(from, to Class)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

func (m *StaticMonitor) IsWiFi() bool      { return m.Class() == ClassWiFi }
func (m *StaticMonitor) IsCellular() bool  { return m.Class() == ClassCellular }
func (m *StaticMonitor) IsConnected() bool { return m.Class() != ClassNone }
