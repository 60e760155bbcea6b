package shared

import (
	"fmt"
	"time"
)

// LifecycleStatus represents the state of a scheduled task execution
type LifecycleStatus string

const (
	// LifecycleStatusPending indicates the handler was created but not started
	LifecycleStatusPending LifecycleStatus = "PENDING"

	// LifecycleStatusRunning indicates the handler is being driven by ticks
	LifecycleStatusRunning LifecycleStatus = "RUNNING"

	// LifecycleStatusCompleted indicates the handler reported IsFinished
	LifecycleStatusCompleted LifecycleStatus = "COMPLETED"

	// LifecycleStatusFailed indicates StartTask returned an error
	LifecycleStatusFailed LifecycleStatus = "FAILED"

	// LifecycleStatusStopped indicates the handler was ended before finishing,
	// usually because a new command replaced it
	LifecycleStatusStopped LifecycleStatus = "STOPPED"
)

// LifecycleStateMachine enforces the PENDING → RUNNING → COMPLETED/FAILED/STOPPED
// sequence for one task execution and records when each step happened.
//
// Invariants:
// - Start happens exactly once
// - Exactly one terminal transition happens
// - Clock is injected for testability
type LifecycleStateMachine struct {
	status    LifecycleStatus
	startedAt *time.Time
	stoppedAt *time.Time
	ticks     int
	lastError error
	clock     Clock
}

// NewLifecycleStateMachine creates a new lifecycle state machine in PENDING state
func NewLifecycleStateMachine(clock Clock) *LifecycleStateMachine {
	if clock == nil {
		clock = NewRealClock()
	}
	return &LifecycleStateMachine{
		status: LifecycleStatusPending,
		clock:  clock,
	}
}

func (sm *LifecycleStateMachine) Status() LifecycleStatus { return sm.status }
func (sm *LifecycleStateMachine) StartedAt() *time.Time   { return sm.startedAt }
func (sm *LifecycleStateMachine) StoppedAt() *time.Time   { return sm.stoppedAt }
func (sm *LifecycleStateMachine) LastError() error        { return sm.lastError }
func (sm *LifecycleStateMachine) Ticks() int              { return sm.ticks }

// Start transitions from PENDING to RUNNING
func (sm *LifecycleStateMachine) Start() error {
	if sm.status != LifecycleStatusPending {
		return fmt.Errorf("cannot start from %s state", sm.status)
	}
	now := sm.clock.Now()
	sm.status = LifecycleStatusRunning
	sm.startedAt = &now
	return nil
}

// Tick counts one update while RUNNING
func (sm *LifecycleStateMachine) Tick() error {
	if sm.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot tick in %s state", sm.status)
	}
	sm.ticks++
	return nil
}

// Complete transitions from RUNNING to COMPLETED
func (sm *LifecycleStateMachine) Complete() error {
	if sm.status != LifecycleStatusRunning {
		return fmt.Errorf("cannot complete from %s state", sm.status)
	}
	sm.finish(LifecycleStatusCompleted)
	return nil
}

// Fail transitions to FAILED from any non-terminal state
func (sm *LifecycleStateMachine) Fail(err error) error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot fail from %s state", sm.status)
	}
	sm.lastError = err
	sm.finish(LifecycleStatusFailed)
	return nil
}

// Stop transitions to STOPPED from any non-terminal state
func (sm *LifecycleStateMachine) Stop() error {
	if sm.IsFinished() {
		return fmt.Errorf("cannot stop from %s state", sm.status)
	}
	sm.finish(LifecycleStatusStopped)
	return nil
}

func (sm *LifecycleStateMachine) finish(status LifecycleStatus) {
	now := sm.clock.Now()
	sm.status = status
	sm.stoppedAt = &now
}

// IsRunning returns true while the handler is being driven
func (sm *LifecycleStateMachine) IsRunning() bool {
	return sm.status == LifecycleStatusRunning
}

// IsFinished returns true if the execution completed, failed, or stopped
func (sm *LifecycleStateMachine) IsFinished() bool {
	return sm.status == LifecycleStatusCompleted ||
		sm.status == LifecycleStatusFailed ||
		sm.status == LifecycleStatusStopped
}

// RuntimeDuration calculates how long the execution has been/was running
func (sm *LifecycleStateMachine) RuntimeDuration() time.Duration {
	if sm.startedAt == nil {
		return 0
	}
	end := sm.clock.Now()
	if sm.stoppedAt != nil {
		end = *sm.stoppedAt
	}
	return end.Sub(*sm.startedAt)
}
