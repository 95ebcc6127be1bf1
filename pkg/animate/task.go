// Package animate holds the time-driven UI behaviors as explicit state
// machines: a self-rescheduling task with a cancel handle, the typing
// headline effect and the hero slideshow. The step functions are pure so
// tests never wait on a wall clock.
package animate

import (
	"sync"
	"time"
)

// StepFunc runs one step and returns the delay until the next one. A
// non-positive delay stops the task.
type StepFunc func() time.Duration

// Task is a self-rescheduling timer with a cancel handle. Each firing
// decides its own follow-up delay, the way the original effects
// rescheduled themselves.
type Task struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	fn      StepFunc
}

// Start schedules fn after initial and keeps rescheduling it with the
// delay it returns.
func Start(initial time.Duration, fn StepFunc) *Task {
	t := &Task{fn: fn}
	t.mu.Lock()
	t.timer = time.AfterFunc(initial, t.fire)
	t.mu.Unlock()
	return t
}

func (t *Task) fire() {
	next := t.fn()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || next <= 0 {
		t.stopped = true
		return
	}
	t.timer.Reset(next)
}

// Stop cancels the task. Safe to call more than once; a step already in
// flight finishes but does not reschedule.
func (t *Task) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
}

// Reset cancels the pending firing and schedules the next one after d.
// Used when user interaction restarts an autoplay countdown.
func (t *Task) Reset(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.timer.Reset(d)
}
