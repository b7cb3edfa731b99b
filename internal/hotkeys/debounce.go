package hotkeys

import (
	"sync"
	"time"
)

// DefaultDebounce is the minimum spacing between two accepted triggers.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer drops triggers that arrive within interval of the last
// accepted one.
type Debouncer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
}

func NewDebouncer(interval time.Duration) *Debouncer {
	if interval < 0 {
		interval = 0
	}
	return &Debouncer{interval: interval, now: time.Now}
}

// Allow reports whether a trigger arriving now should run.
func (d *Debouncer) Allow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if !d.last.IsZero() && now.Sub(d.last) < d.interval {
		return false
	}
	d.last = now
	return true
}

// Wrap returns fn guarded by the debouncer.
func (d *Debouncer) Wrap(fn func()) func() {
	return func() {
		if d.Allow() {
			fn()
		}
	}
}
