package x11

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	stateHidden        = "_NET_WM_STATE_HIDDEN"
	stateMaximizedHorz = "_NET_WM_STATE_MAXIMIZED_HORZ"
	stateMaximizedVert = "_NET_WM_STATE_MAXIMIZED_VERT"
	stateSkipTaskbar   = "_NET_WM_STATE_SKIP_TASKBAR"
)

// auxiliaryTypes are window types that never represent a user document window.
var auxiliaryTypes = map[string]bool{
	"_NET_WM_WINDOW_TYPE_DESKTOP":       true,
	"_NET_WM_WINDOW_TYPE_DOCK":          true,
	"_NET_WM_WINDOW_TYPE_TOOLBAR":       true,
	"_NET_WM_WINDOW_TYPE_MENU":          true,
	"_NET_WM_WINDOW_TYPE_UTILITY":       true,
	"_NET_WM_WINDOW_TYPE_SPLASH":        true,
	"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU": true,
	"_NET_WM_WINDOW_TYPE_POPUP_MENU":    true,
	"_NET_WM_WINDOW_TYPE_TOOLTIP":       true,
	"_NET_WM_WINDOW_TYPE_NOTIFICATION":  true,
}

// ErrNoActiveWindow is returned when the window manager reports no focus.
var ErrNoActiveWindow = errors.New("no active window")

// ClientWindows returns the managed top-level windows from _NET_CLIENT_LIST.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	return ewmh.ClientListGet(c.XUtil)
}

// GetActiveWindow returns the focused top-level window.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, err
	}
	if win == 0 {
		return 0, ErrNoActiveWindow
	}
	return win, nil
}

// WindowTitle prefers _NET_WM_NAME and falls back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) (string, error) {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil && strings.TrimSpace(title) != "" {
		return strings.TrimSpace(title), nil
	}
	title, err := icccm.WmNameGet(c.XUtil, windowID)
	if err != nil {
		// Untitled windows are legitimate; only a dead window is an error.
		if gerr := c.exists(windowID); gerr != nil {
			return "", gerr
		}
		return "", nil
	}
	return strings.TrimSpace(title), nil
}

// WindowClass returns the WM_CLASS class part.
func (c *Connection) WindowClass(windowID xproto.Window) (string, error) {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		if gerr := c.exists(windowID); gerr != nil {
			return "", gerr
		}
		return "", nil
	}
	return strings.TrimSpace(wmClass.Class), nil
}

// WindowPID returns _NET_WM_PID.
func (c *Connection) WindowPID(windowID xproto.Window) (int, error) {
	pid, err := ewmh.WmPidGet(c.XUtil, windowID)
	if err != nil {
		return 0, err
	}
	return int(pid), nil
}

// IsViewable reports whether the window is mapped and all its ancestors are.
func (c *Connection) IsViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// IsMinimized reports iconified windows via _NET_WM_STATE_HIDDEN or WM_STATE.
func (c *Connection) IsMinimized(windowID xproto.Window) bool {
	if c.hasState(windowID, stateHidden) {
		return true
	}
	st, err := icccm.WmStateGet(c.XUtil, windowID)
	return err == nil && st.State == icccm.StateIconic
}

// IsMaximized reports windows maximized in both directions.
func (c *Connection) IsMaximized(windowID xproto.Window) bool {
	return c.hasState(windowID, stateMaximizedHorz) && c.hasState(windowID, stateMaximizedVert)
}

// IsAuxiliaryWindow reports docks, panels, menus, tooltips and windows that
// ask to stay off the taskbar. An unknown type counts as a normal window.
func (c *Connection) IsAuxiliaryWindow(windowID xproto.Window) bool {
	if c.hasState(windowID, stateSkipTaskbar) {
		return true
	}
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_NORMAL" {
			return false
		}
		if auxiliaryTypes[t] {
			return true
		}
	}
	return false
}

// Geometry returns the window's client rectangle in root coordinates.
func (c *Connection) Geometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	translate, err := xproto.TranslateCoordinates(c.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

func (c *Connection) exists(windowID xproto.Window) error {
	_, err := xproto.GetGeometry(c.Conn(), xproto.Drawable(windowID)).Reply()
	return err
}

// Restore un-minimizes and un-maximizes a window.
func (c *Connection) Restore(windowID xproto.Window) error {
	if c.IsMinimized(windowID) {
		if err := xproto.MapWindowChecked(c.Conn(), windowID).Check(); err != nil {
			return err
		}
		if err := c.FocusWindow(windowID); err != nil {
			return err
		}
	}
	return c.unmaximizeWindow(windowID)
}

// SetNormalState writes the normal show state straight into WM_STATE and
// _NET_WM_STATE, bypassing the window manager request path.
func (c *Connection) SetNormalState(windowID xproto.Window) error {
	if err := icccm.WmStateSet(c.XUtil, windowID, &icccm.WmState{State: icccm.StateNormal}); err != nil {
		return fmt.Errorf("failed to set WM_STATE: %w", err)
	}

	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err == nil {
		kept := states[:0]
		for _, s := range states {
			switch s {
			case stateHidden, stateMaximizedHorz, stateMaximizedVert:
				continue
			}
			kept = append(kept, s)
		}
		if err := ewmh.WmStateSet(c.XUtil, windowID, kept); err != nil {
			return fmt.Errorf("failed to set _NET_WM_STATE: %w", err)
		}
	}

	return xproto.MapWindowChecked(c.Conn(), windowID).Check()
}

// MoveResizeWindow moves and resizes a window to the specified geometry,
// mapping it first when it is not shown.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	if err := c.exists(windowID); err != nil {
		return err
	}
	if !c.IsViewable(windowID) {
		if err := xproto.MapWindowChecked(c.Conn(), windowID).Check(); err != nil {
			return err
		}
	}

	// Maximized windows ignore geometry requests under most window managers.
	_ = c.unmaximizeWindow(windowID)

	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// MoveWindow repositions a window, keeping its size.
func (c *Connection) MoveWindow(windowID xproto.Window, x, y int) error {
	if err := c.exists(windowID); err != nil {
		return err
	}
	if err := ewmh.MoveWindow(c.XUtil, windowID, x, y); err != nil {
		xwindow.New(c.XUtil, windowID).Move(x, y)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}
	for _, state := range states {
		if state != stateMaximizedHorz && state != stateMaximizedVert {
			continue
		}
		if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
			return err
		}
	}
	return nil
}

func (c *Connection) hasState(windowID xproto.Window, want string) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, s := range states {
		if s == want {
			return true
		}
	}
	return false
}

func (c *Connection) hasWindowType(windowID xproto.Window, want string) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}
