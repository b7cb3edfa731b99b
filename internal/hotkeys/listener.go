package hotkeys

import "context"

// Listener delivers global hotkey presses.
type Listener interface {
	// Register binds combo to fn. Callbacks run on the listener's goroutine.
	Register(combo Combo, fn func()) error
	// Unregister drops every binding.
	Unregister()
	// Serve dispatches hotkey presses until ctx is done.
	Serve(ctx context.Context) error
}
