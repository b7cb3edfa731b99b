package hotkeys

import (
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(150 * time.Millisecond)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	now := base
	d.now = func() time.Time { return now }

	if !d.Allow() {
		t.Fatalf("expected first trigger to pass")
	}
	now = base.Add(100 * time.Millisecond)
	if d.Allow() {
		t.Fatalf("expected trigger within the interval to be dropped")
	}
	now = base.Add(150 * time.Millisecond)
	if !d.Allow() {
		t.Fatalf("expected trigger at the interval to pass")
	}
}

func TestDebouncerWrap(t *testing.T) {
	d := NewDebouncer(time.Hour)
	count := 0
	fn := d.Wrap(func() { count++ })
	fn()
	fn()
	fn()
	if count != 1 {
		t.Fatalf("expected one call, got %d", count)
	}
}
