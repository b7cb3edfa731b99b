package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

func (m Monitor) contains(x, y int) bool {
	return x >= m.X && x < m.X+m.Width && y >= m.Y && y < m.Y+m.Height
}

// distance2 is the squared distance from (x, y) to the closest monitor pixel.
func (m Monitor) distance2(x, y int) int {
	dx := max(m.X-x, 0, x-(m.X+m.Width-1))
	dy := max(m.Y-y, 0, y-(m.Y+m.Height-1))
	return dx*dx + dy*dy
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Disabled CRTC.
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:     i,
			Name:   name,
			X:      int(info.X),
			Y:      int(info.Y),
			Width:  int(info.Width),
			Height: int(info.Height),
		})
	}

	return monitors, nil
}

// WorkAreaAt returns the monitor nearest (x, y) with its geometry reduced to
// the work area (excluding panels and docks).
func (c *Connection) WorkAreaAt(x, y int) (Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return Monitor{}, err
	}
	if len(monitors) == 0 {
		return Monitor{}, fmt.Errorf("no monitors found")
	}

	mon := nearestMonitor(monitors, x, y)
	if !c.applyDockStruts(&mon) {
		c.applyDesktopWorkArea(&mon)
	}
	return mon, nil
}

// PointerPosition returns the pointer position in root coordinates.
func (c *Connection) PointerPosition() (int, int, error) {
	pointer, err := xproto.QueryPointer(c.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}

func nearestMonitor(monitors []Monitor, x, y int) Monitor {
	best := monitors[0]
	bestDist := -1
	for _, m := range monitors {
		if m.contains(x, y) {
			return m
		}
		if d := m.distance2(x, y); bestDist < 0 || d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

// applyDesktopWorkArea intersects the monitor with _NET_WORKAREA of the
// current desktop.
func (c *Connection) applyDesktopWorkArea(mon *Monitor) {
	areas, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(areas) == 0 {
		return
	}

	idx := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(areas) {
		idx = int(current)
	}
	wa := areas[idx]

	isect := overlap(
		span{mon.X, mon.Y, mon.X + mon.Width, mon.Y + mon.Height},
		span{int(wa.X), int(wa.Y), int(wa.X) + int(wa.Width), int(wa.Y) + int(wa.Height)},
	)
	if isect.empty() {
		return
	}
	mon.X, mon.Y = isect.x1, isect.y1
	mon.Width, mon.Height = isect.x2-isect.x1, isect.y2-isect.y1
}

// span is a half-open rectangle [x1,x2) x [y1,y2).
type span struct {
	x1, y1, x2, y2 int
}

func (s span) empty() bool {
	return s.x2 <= s.x1 || s.y2 <= s.y1
}

func overlap(a, b span) span {
	out := span{max(a.x1, b.x1), max(a.y1, b.y1), min(a.x2, b.x2), min(a.y2, b.y2)}
	if out.empty() {
		return span{}
	}
	return out
}

type reservedEdges struct {
	left, right, top, bottom int
}

func (r reservedEdges) zero() bool {
	return r.left == 0 && r.right == 0 && r.top == 0 && r.bottom == 0
}

// applyDockStruts shrinks the monitor by the space reserved by dock windows
// that overlap it. It reports false when no dock reserves space there.
func (c *Connection) applyDockStruts(mon *Monitor) bool {
	rootGeom, err := xproto.GetGeometry(c.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return false
	}
	rootW, rootH := int(rootGeom.Width), int(rootGeom.Height)

	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return false
	}

	monSpan := span{mon.X, mon.Y, mon.X + mon.Width, mon.Y + mon.Height}
	var reserved reservedEdges
	for _, win := range clients {
		if !c.hasWindowType(win, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		sp, ok := c.dockStrut(win, rootW, rootH)
		if !ok {
			continue
		}

		if sp.Top > 0 {
			o := overlap(monSpan, span{int(sp.TopStartX), 0, int(sp.TopEndX) + 1, int(sp.Top)})
			reserved.top = max(reserved.top, o.y2-o.y1)
		}
		if sp.Bottom > 0 {
			o := overlap(monSpan, span{int(sp.BottomStartX), rootH - int(sp.Bottom), int(sp.BottomEndX) + 1, rootH})
			reserved.bottom = max(reserved.bottom, o.y2-o.y1)
		}
		if sp.Left > 0 {
			o := overlap(monSpan, span{0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY) + 1})
			reserved.left = max(reserved.left, o.x2-o.x1)
		}
		if sp.Right > 0 {
			o := overlap(monSpan, span{rootW - int(sp.Right), int(sp.RightStartY), rootW, int(sp.RightEndY) + 1})
			reserved.right = max(reserved.right, o.x2-o.x1)
		}
	}

	if reserved.zero() {
		return false
	}

	mon.X += reserved.left
	mon.Y += reserved.top
	mon.Width = max(mon.Width-reserved.left-reserved.right, 1)
	mon.Height = max(mon.Height-reserved.top-reserved.bottom, 1)
	return true
}

// dockStrut reads _NET_WM_STRUT_PARTIAL, widening a plain _NET_WM_STRUT to
// span the whole root window.
func (c *Connection) dockStrut(win xproto.Window, rootW, rootH int) (*ewmh.WmStrutPartial, bool) {
	if sp, err := ewmh.WmStrutPartialGet(c.XUtil, win); err == nil {
		return sp, true
	}
	s, err := ewmh.WmStrutGet(c.XUtil, win)
	if err != nil {
		return nil, false
	}
	return &ewmh.WmStrutPartial{
		Left:       s.Left,
		Right:      s.Right,
		Top:        s.Top,
		Bottom:     s.Bottom,
		LeftEndY:   uint(rootH - 1),
		RightEndY:  uint(rootH - 1),
		TopEndX:    uint(rootW - 1),
		BottomEndX: uint(rootW - 1),
	}, true
}
