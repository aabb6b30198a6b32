// Package timing provides a cancellable debounce timer used by the
// completion pipeline and the directory monitor.
package timing

import (
	"sync"
	"time"
)

// Debouncer schedules a callback to fire after a quiet period. Scheduling
// again before the timer fires replaces the pending callback, so a burst of
// triggers collapses into a single invocation.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending bool
}

// NewDebouncer creates a debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run after the configured delay, cancelling any
// previously scheduled callback. fn runs on the timer's goroutine; callers
// that own UI state must marshal back themselves.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = true
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// A Cancel or newer Trigger may have raced the timer firing;
		// only the generation that armed this timer may run.
		if !d.pending || d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.mu.Unlock()
		fn()
	})
}

// Cancel stops any pending callback. A callback whose timer already fired
// but has not yet run is suppressed as well.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
}

// Pending reports whether a callback is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
