package platform

import (
	"errors"
	"fmt"
	"sync"
)

// FakeWindow scripts one window of a FakeNative desktop.
type FakeWindow struct {
	Handle     Handle
	Title      string
	Class      string
	PID        int
	Visible    bool
	Minimized  bool
	Maximized  bool
	Cloaked    bool
	CloakErr   error
	ToolWindow bool
	Bounds     Rect
	// NormalBounds is applied when the window is restored; empty keeps Bounds.
	NormalBounds Rect
	// MinSize is the smallest size SetBounds applies, like an OS-enforced minimum.
	MinSize Size
	// IgnoreRestore leaves the show state untouched on Restore.
	IgnoreRestore bool
	PlacementErr  error
	SetBoundsErr  error
	// RefuseForeground makes SetForeground fail, like a foreground lock.
	RefuseForeground bool
}

// FakeNative is an in-memory desktop implementing Native.
type FakeNative struct {
	mu         sync.Mutex
	windows    []*FakeWindow
	nextHandle Handle
	foreground Handle
	cursor     Point
	cursorErr  error
	workAreas  []Rect
	calls      []string
}

var _ Native = (*FakeNative)(nil)

// NewFakeNative returns an empty desktop with one 1920x1040 work area.
func NewFakeNative() *FakeNative {
	return &FakeNative{
		nextHandle: 0x1000,
		workAreas:  []Rect{{X: 0, Y: 0, Width: 1920, Height: 1040}},
	}
}

// Add places a window on the desktop (top of z-order) and returns its handle.
func (f *FakeNative) Add(w FakeWindow) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w.Handle == 0 {
		f.nextHandle += 0x10
		w.Handle = f.nextHandle
	}
	f.windows = append(f.windows, &w)
	return w.Handle
}

// Remove closes a window; its handle becomes stale.
func (f *FakeNative) Remove(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, w := range f.windows {
		if w.Handle == h {
			f.windows = append(f.windows[:i], f.windows[i+1:]...)
			break
		}
	}
	if f.foreground == h {
		f.foreground = 0
	}
}

// Window returns a copy of the scripted window state.
func (f *FakeNative) Window(h Handle) (FakeWindow, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w := f.find(h); w != nil {
		return *w, true
	}
	return FakeWindow{}, false
}

// Update mutates a scripted window in place.
func (f *FakeNative) Update(h Handle, fn func(w *FakeWindow)) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.find(h)
	if w == nil {
		return false
	}
	fn(w)
	return true
}

func (f *FakeNative) SetForegroundHandle(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foreground = h
}

// SetCursor sets the cursor position; a non-nil err makes CursorPos fail.
func (f *FakeNative) SetCursor(p Point, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cursor = p
	f.cursorErr = err
}

// SetWorkAreas replaces the monitor work areas. None makes WorkAreaAt fail.
func (f *FakeNative) SetWorkAreas(areas ...Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.workAreas = append([]Rect(nil), areas...)
}

// Calls returns the native operations issued so far, in order.
func (f *FakeNative) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeNative) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeNative) record(op string, h Handle) {
	if h == 0 {
		f.calls = append(f.calls, op)
		return
	}
	f.calls = append(f.calls, fmt.Sprintf("%s(%s)", op, h))
}

func (f *FakeNative) find(h Handle) *FakeWindow {
	for _, w := range f.windows {
		if w.Handle == h {
			return w
		}
	}
	return nil
}

func (f *FakeNative) lookup(op string, h Handle) (*FakeWindow, error) {
	f.record(op, h)
	if w := f.find(h); w != nil {
		return w, nil
	}
	return nil, StaleHandle(op, h)
}

func (f *FakeNative) TopLevelWindows() ([]Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("TopLevelWindows", 0)
	out := make([]Handle, 0, len(f.windows))
	for i := len(f.windows) - 1; i >= 0; i-- {
		out = append(out, f.windows[i].Handle)
	}
	return out, nil
}

func (f *FakeNative) ForegroundWindow() (Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ForegroundWindow", 0)
	if f.foreground == 0 {
		return 0, errors.New("no foreground window")
	}
	return f.foreground, nil
}

func (f *FakeNative) WindowText(h Handle) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("WindowText", h)
	if err != nil {
		return "", err
	}
	return w.Title, nil
}

func (f *FakeNative) ClassName(h Handle) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("ClassName", h)
	if err != nil {
		return "", err
	}
	return w.Class, nil
}

func (f *FakeNative) ProcessID(h Handle) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("ProcessID", h)
	if err != nil {
		return 0, err
	}
	return w.PID, nil
}

func (f *FakeNative) IsVisible(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("IsVisible", h)
	return err == nil && w.Visible
}

func (f *FakeNative) IsMinimized(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("IsMinimized", h)
	return err == nil && w.Minimized
}

func (f *FakeNative) IsMaximized(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("IsMaximized", h)
	return err == nil && w.Maximized
}

func (f *FakeNative) IsCloaked(h Handle) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("IsCloaked", h)
	if err != nil {
		return false, err
	}
	if w.CloakErr != nil {
		return false, w.CloakErr
	}
	return w.Cloaked, nil
}

func (f *FakeNative) IsToolWindow(h Handle) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("IsToolWindow", h)
	return err == nil && w.ToolWindow
}

func (f *FakeNative) WindowRect(h Handle) (Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("WindowRect", h)
	if err != nil {
		return Rect{}, err
	}
	return w.Bounds, nil
}

func (f *FakeNative) Restore(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("Restore", h)
	if err != nil {
		return err
	}
	if w.IgnoreRestore {
		return nil
	}
	f.normalize(w)
	return nil
}

func (f *FakeNative) SetNormalPlacement(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("SetNormalPlacement", h)
	if err != nil {
		return err
	}
	if w.PlacementErr != nil {
		return &NativeError{Op: "SetNormalPlacement", Code: CodeAccessDenied, Err: w.PlacementErr}
	}
	f.normalize(w)
	return nil
}

func (f *FakeNative) normalize(w *FakeWindow) {
	w.Minimized = false
	w.Maximized = false
	w.Visible = true
	if !w.NormalBounds.Empty() {
		w.Bounds = w.NormalBounds
	}
}

func (f *FakeNative) SetBounds(h Handle, r Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("SetBounds", h)
	if err != nil {
		return err
	}
	if w.SetBoundsErr != nil {
		code := CodeAccessDenied
		if c, ok := ErrorCode(w.SetBoundsErr); ok {
			code = c
		}
		return &NativeError{Op: "SetBounds", Code: code, Err: w.SetBoundsErr}
	}
	r.Width = max(r.Width, w.MinSize.Width)
	r.Height = max(r.Height, w.MinSize.Height)
	w.Bounds = r
	w.Visible = true
	return nil
}

func (f *FakeNative) Move(h Handle, p Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("Move", h)
	if err != nil {
		return err
	}
	w.Bounds.X = p.X
	w.Bounds.Y = p.Y
	return nil
}

func (f *FakeNative) SetForeground(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, err := f.lookup("SetForeground", h)
	if err != nil {
		return err
	}
	if w.RefuseForeground {
		return &NativeError{Op: "SetForeground", Code: CodeAccessDenied}
	}
	f.foreground = h
	f.raise(h)
	return nil
}

func (f *FakeNative) BringToTop(h Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.lookup("BringToTop", h); err != nil {
		return err
	}
	f.raise(h)
	return nil
}

func (f *FakeNative) raise(h Handle) {
	for i, w := range f.windows {
		if w.Handle == h {
			f.windows = append(append(f.windows[:i:i], f.windows[i+1:]...), w)
			return
		}
	}
}

func (f *FakeNative) CursorPos() (Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CursorPos", 0)
	if f.cursorErr != nil {
		return Point{}, f.cursorErr
	}
	return f.cursor, nil
}

func (f *FakeNative) WorkAreaAt(p Point) (Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("WorkAreaAt", 0)
	if len(f.workAreas) == 0 {
		return Rect{}, errors.New("no monitors")
	}
	best := f.workAreas[0]
	bestDist := -1
	for _, area := range f.workAreas {
		if area.Contains(p) {
			return area, nil
		}
		dx := max(area.X-p.X, 0, p.X-(area.Right()-1))
		dy := max(area.Y-p.Y, 0, p.Y-(area.Bottom()-1))
		if d := dx*dx + dy*dy; bestDist < 0 || d < bestDist {
			best, bestDist = area, d
		}
	}
	return best, nil
}

func (f *FakeNative) Close() error { return nil }
