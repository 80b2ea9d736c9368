package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus is the state of a long-running tick loop
type LifecycleStatus string

const (
	LifecycleStatusPending   LifecycleStatus = "PENDING"
	LifecycleStatusRunning   LifecycleStatus = "RUNNING"
	LifecycleStatusPaused    LifecycleStatus = "PAUSED"
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"
	LifecycleStatusFailed    LifecycleStatus = "FAILED"
)

// Lifecycle tracks PENDING → RUNNING ⇄ PAUSED → COMPLETED/FAILED for a
// simulation run. Not safe for concurrent use; callers hold their own lock.
type Lifecycle struct {
	status    LifecycleStatus
	startedAt *time.Time
	stoppedAt *time.Time
	lastError error
	clock     Clock
}

func NewLifecycle(clock Clock) *Lifecycle {
	clock = ClockOrReal(clock)
	return &Lifecycle{status: LifecycleStatusPending, clock: clock}
}

func (l *Lifecycle) Status() LifecycleStatus { return l.status }
func (l *Lifecycle) LastError() error        { return l.lastError }
func (l *Lifecycle) StartedAt() *time.Time   { return l.startedAt }

// Start transitions from PENDING or PAUSED to RUNNING
func (l *Lifecycle) Start() error {
	if l.status != LifecycleStatusPending && l.status != LifecycleStatusPaused {
		return fmt.Errorf("cannot start from %s state", l.status)
	}
	if l.startedAt == nil {
		now := l.clock.Now()
		l.startedAt = &now
	}
	l.status = LifecycleStatusRunning
	return nil
}

// Pause transitions from RUNNING to PAUSED
func (l *Lifecycle) Pause() error {
	if l.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot pause from %s state", l.status)
	}
	l.status = LifecycleStatusPaused
	return nil
}

// Complete finishes a running or paused loop
func (l *Lifecycle) Complete() error {
	if l.IsFinished() || l.status == LifecycleStatusPending {
		return fmt.Errorf("cannot complete from %s state", l.status)
	}
	now := l.clock.Now()
	l.status = LifecycleStatusCompleted
	l.stoppedAt = &now
	return nil
}

// Fail records err and moves to FAILED from any non-terminal state
func (l *Lifecycle) Fail(err error) error {
	if l.IsFinished() {
		return fmt.Errorf("cannot fail from %s state", l.status)
	}
	now := l.clock.Now()
	l.status = LifecycleStatusFailed
	l.lastError = err
	l.stoppedAt = &now
	return nil
}

func (l *Lifecycle) IsRunning() bool {
	return l.status == LifecycleStatusRunning
}

func (l *Lifecycle) IsFinished() bool {
	return l.status == LifecycleStatusCompleted || l.status == LifecycleStatusFailed
}

// Uptime returns how long the loop has been (or was) running
func (l *Lifecycle) Uptime() time.Duration {
	if l.startedAt == nil {
		return 0
	}
	end := l.clock.Now()
	if l.stoppedAt != nil {
		end = *l.stoppedAt
	}
	return end.Sub(*l.startedAt)
}
