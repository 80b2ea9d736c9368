package shared

import (
	"sync"
	"time"
)

// Clock is the wall-time source for persisted timestamps and breaker
// cooldowns. Simulation time is counted in ticks on the colony snapshot.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// NewRealClock returns the system clock in UTC
func NewRealClock() Clock {
	return realClock{}
}

// ClockOrReal lets constructors accept a nil clock in production wiring
func ClockOrReal(c Clock) Clock {
	if c == nil {
		return NewRealClock()
	}
	return c
}

// MockClock is a manually driven clock, safe to share between the tick
// loop and test assertions
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock starts a MockClock at start, or at 2025-01-01 UTC when zero
func NewMockClock(start time.Time) *MockClock {
	if start.IsZero() {
		start = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &MockClock{now: start}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward by d
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}

// Set jumps to t; moving backwards is allowed
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}
