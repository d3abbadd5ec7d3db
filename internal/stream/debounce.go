package stream

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers into a single trailing call: only the
// most recent function scheduled within the delay window executes. A
// renderer owns one Debouncer and tears it down deterministically via Stop.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer with the given delay. A non-positive
// delay makes Trigger run its function synchronously, which keeps tests and
// one-shot callers deterministic.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the delay, replacing any not-yet-fired
// previous schedule.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.delay <= 0 {
		d.mu.Unlock()
		fn()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		stopped := d.stopped
		d.timer = nil
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
	d.mu.Unlock()
}

// Cancel drops any pending call without preventing future triggers.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels any pending call and rejects all future triggers. No call
// fires after Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
