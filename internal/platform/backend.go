package platform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Handle is an opaque reference to an OS-owned top-level window.
// The zero value is the null handle.
type Handle uintptr

func (h Handle) String() string {
	return fmt.Sprintf("0x%X", uintptr(h))
}

// ParseHandle accepts decimal or 0x-prefixed hexadecimal handles.
func ParseHandle(s string) (Handle, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("handle is empty")
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid handle %q: %w", s, err)
	}
	return Handle(v), nil
}

// WindowState is the show state of a top-level window.
type WindowState int

const (
	StateNormal WindowState = iota
	StateMinimized
	StateMaximized
)

func (s WindowState) String() string {
	switch s {
	case StateMinimized:
		return "minimized"
	case StateMaximized:
		return "maximized"
	default:
		return "normal"
	}
}

// Window is a point-in-time snapshot of a top-level window.
type Window struct {
	Handle    Handle `json:"handle"`
	Title     string `json:"title"`
	Class     string `json:"class"`
	PID       int    `json:"pid"`
	Visible   bool   `json:"visible"`
	Minimized bool   `json:"minimized"`
	Bounds    Rect   `json:"bounds"`
	Resizable bool   `json:"resizable"`
}

// DisplayText returns a label suitable for menus and log lines.
func (w Window) DisplayText() string {
	if strings.TrimSpace(w.Title) == "" {
		return fmt.Sprintf("<Untitled> (%s)", w.Class)
	}
	return w.Title
}

// ErrUnsupported is returned when no native backend exists for this OS.
var ErrUnsupported = errors.New("window management is not supported on this platform")

// Native abstracts the window-system calls the geometry core relies on.
// Implementations must tolerate stale handles and report them as errors.
type Native interface {
	TopLevelWindows() ([]Handle, error)
	ForegroundWindow() (Handle, error)

	WindowText(h Handle) (string, error)
	ClassName(h Handle) (string, error)
	ProcessID(h Handle) (int, error)

	IsVisible(h Handle) bool
	IsMinimized(h Handle) bool
	IsMaximized(h Handle) bool
	// IsCloaked reports compositor-hidden windows. Callers treat an error
	// as "not cloaked".
	IsCloaked(h Handle) (bool, error)
	IsToolWindow(h Handle) bool

	WindowRect(h Handle) (Rect, error)

	// Restore issues the OS "show normal" command.
	Restore(h Handle) error
	// SetNormalPlacement writes a normal show state into the window placement.
	SetNormalPlacement(h Handle) error
	// SetBounds moves and sizes the window without changing z-order or
	// activation, and shows it if hidden.
	SetBounds(h Handle, r Rect) error
	// Move repositions the window without changing size, z-order or activation.
	Move(h Handle, p Point) error

	SetForeground(h Handle) error
	BringToTop(h Handle) error

	CursorPos() (Point, error)
	// WorkAreaAt returns the usable area of the monitor nearest p.
	WorkAreaAt(p Point) (Rect, error)

	Close() error
}
