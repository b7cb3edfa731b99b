package resize

import "github.com/1broseidon/winsnap/internal/platform"

// Classify reports the show state of a window. Minimized is checked first
// and wins if the window system reports both. Windows that cannot be
// queried classify as normal.
func Classify(native platform.Native, h platform.Handle) platform.WindowState {
	if native.IsMinimized(h) {
		return platform.StateMinimized
	}
	if native.IsMaximized(h) {
		return platform.StateMaximized
	}
	return platform.StateNormal
}
