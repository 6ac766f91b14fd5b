// Package debounce delays an action until calls have been quiet for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Timer is the cancel handle returned by a Scheduler.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// RealScheduler schedules on the runtime timer.
type RealScheduler struct{}

func (RealScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer keeps at most one pending action. Every Trigger replaces the action and
// restarts the delay; the action runs once after the delay passes with no further Trigger.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	sched   Scheduler
	timer   Timer
	pending func()
	gen     uint64
}

func New(delay time.Duration, sched Scheduler) *Debouncer {
	if sched == nil {
		sched = RealScheduler{}
	}
	return &Debouncer{delay: delay, sched: sched}
}

// Trigger schedules fn, cancelling any action still waiting.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = fn
	d.timer = d.sched.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush runs the pending action immediately on the caller's goroutine.
// It reports whether anything was pending.
func (d *Debouncer) Flush() bool {
	fn := d.take()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Stop drops the pending action without running it.
func (d *Debouncer) Stop() {
	d.take()
}

// Pending reports whether an action is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) take() func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn := d.pending
	d.pending = nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return fn
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn()
}
