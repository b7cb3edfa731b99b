//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/winsnap/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxNative implements Native over an X11 connection.
type LinuxNative struct {
	conn *x11.Connection
}

var _ Native = (*LinuxNative)(nil)

// NewNative opens a fresh X11 connection.
func NewNative() (Native, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxNative{conn: conn}, nil
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (n *LinuxNative) XUtil() *xgbutil.XUtil {
	if n == nil || n.conn == nil {
		return nil
	}
	return n.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (n *LinuxNative) RootWindow() xproto.Window {
	if n == nil || n.conn == nil {
		return 0
	}
	return n.conn.Root
}

// EventLoop runs the X11 event loop (blocking) until QuitEventLoop.
func (n *LinuxNative) EventLoop() {
	n.conn.EventLoop()
}

func (n *LinuxNative) QuitEventLoop() {
	n.conn.Quit()
}

func (n *LinuxNative) Close() error {
	if n != nil && n.conn != nil {
		n.conn.Close()
	}
	return nil
}

func (n *LinuxNative) TopLevelWindows() ([]Handle, error) {
	clients, err := n.conn.ClientWindows()
	if err != nil {
		return nil, wrapXError("ClientList", err)
	}
	out := make([]Handle, 0, len(clients))
	for _, win := range clients {
		out = append(out, Handle(win))
	}
	return out, nil
}

func (n *LinuxNative) ForegroundWindow() (Handle, error) {
	win, err := n.conn.GetActiveWindow()
	if err != nil {
		return 0, wrapXError("ActiveWindow", err)
	}
	return Handle(win), nil
}

func (n *LinuxNative) WindowText(h Handle) (string, error) {
	title, err := n.conn.WindowTitle(xproto.Window(h))
	if err != nil {
		return "", wrapXError("WindowText", err)
	}
	return title, nil
}

func (n *LinuxNative) ClassName(h Handle) (string, error) {
	class, err := n.conn.WindowClass(xproto.Window(h))
	if err != nil {
		return "", wrapXError("ClassName", err)
	}
	return class, nil
}

func (n *LinuxNative) ProcessID(h Handle) (int, error) {
	pid, err := n.conn.WindowPID(xproto.Window(h))
	if err != nil {
		return 0, wrapXError("ProcessID", err)
	}
	return pid, nil
}

// IsVisible treats iconified windows as visible: the window manager unmaps
// them, but they are still user windows that can be restored.
func (n *LinuxNative) IsVisible(h Handle) bool {
	win := xproto.Window(h)
	return n.conn.IsViewable(win) || n.conn.IsMinimized(win)
}

func (n *LinuxNative) IsMinimized(h Handle) bool {
	return n.conn.IsMinimized(xproto.Window(h))
}

func (n *LinuxNative) IsMaximized(h Handle) bool {
	return n.conn.IsMaximized(xproto.Window(h))
}

// IsCloaked reports windows parked on another virtual desktop.
func (n *LinuxNative) IsCloaked(h Handle) (bool, error) {
	cloaked, err := n.conn.OnOtherDesktop(xproto.Window(h))
	if err != nil {
		return false, wrapXError("IsCloaked", err)
	}
	return cloaked, nil
}

func (n *LinuxNative) IsToolWindow(h Handle) bool {
	return n.conn.IsAuxiliaryWindow(xproto.Window(h))
}

func (n *LinuxNative) WindowRect(h Handle) (Rect, error) {
	x, y, w, ht, err := n.conn.Geometry(xproto.Window(h))
	if err != nil {
		return Rect{}, wrapXError("WindowRect", err)
	}
	return Rect{X: x, Y: y, Width: w, Height: ht}, nil
}

func (n *LinuxNative) Restore(h Handle) error {
	return wrapXError("Restore", n.conn.Restore(xproto.Window(h)))
}

func (n *LinuxNative) SetNormalPlacement(h Handle) error {
	return wrapXError("SetNormalPlacement", n.conn.SetNormalState(xproto.Window(h)))
}

func (n *LinuxNative) SetBounds(h Handle, r Rect) error {
	return wrapXError("SetBounds", n.conn.MoveResizeWindow(xproto.Window(h), r.X, r.Y, r.Width, r.Height))
}

func (n *LinuxNative) Move(h Handle, p Point) error {
	return wrapXError("Move", n.conn.MoveWindow(xproto.Window(h), p.X, p.Y))
}

func (n *LinuxNative) SetForeground(h Handle) error {
	return wrapXError("SetForeground", n.conn.FocusWindow(xproto.Window(h)))
}

func (n *LinuxNative) BringToTop(h Handle) error {
	return wrapXError("BringToTop", n.conn.RaiseWindow(xproto.Window(h)))
}

func (n *LinuxNative) CursorPos() (Point, error) {
	x, y, err := n.conn.PointerPosition()
	if err != nil {
		return Point{}, wrapXError("CursorPos", err)
	}
	return Point{X: x, Y: y}, nil
}

func (n *LinuxNative) WorkAreaAt(p Point) (Rect, error) {
	mon, err := n.conn.WorkAreaAt(p.X, p.Y)
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}, nil
}

// wrapXError maps X protocol errors onto the shared error codes.
func wrapXError(op string, err error) error {
	if err == nil {
		return nil
	}
	code := CodeGenFailure
	switch err.(type) {
	case xproto.WindowError, xproto.DrawableError:
		code = CodeInvalidWindowHandle
	case xproto.AccessError:
		code = CodeAccessDenied
	case xproto.ValueError, xproto.MatchError:
		code = CodeInvalidParameter
	}
	return &NativeError{Op: op, Code: code, Err: err}
}
