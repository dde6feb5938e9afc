package app

import (
	"sync"
	"time"
)

// Stopper is the part of *time.Timer the debouncer needs.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules fn after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, fn func()) Stopper

func realAfterFunc(d time.Duration, fn func()) Stopper { return time.AfterFunc(d, fn) }

// Debouncer runs fn once after Trigger stops being called for delay. Each
// Trigger replaces the pending timer instead of adding another.
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	fn         func()
	afterFunc  AfterFunc
	timer      Stopper
	generation uint64
}

func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn, afterFunc: realAfterFunc}
}

// WithAfterFunc swaps the timer source, for tests.
func (d *Debouncer) WithAfterFunc(f AfterFunc) *Debouncer {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.afterFunc = f
	return d
}

// Trigger (re)starts the delay.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.generation++
	gen := d.generation
	d.timer = d.afterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a timer is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending run, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.generation {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}
