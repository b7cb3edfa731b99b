// Package position places windows relative to the cursor, an anchor window
// or the work area of the monitor they are on.
package position

import (
	"log/slog"

	"github.com/1broseidon/winsnap/internal/platform"
)

const (
	DefaultFallbackWidth  = 280
	DefaultFallbackHeight = 400
	DefaultEdgeMargin     = 10
)

type Options struct {
	// FallbackWidth and FallbackHeight size the utility window when its
	// bounds cannot be read.
	FallbackWidth  int
	FallbackHeight int
	// EdgeMargin is the gap kept from the work-area edge when clamping; zero
	// selects DefaultEdgeMargin.
	EdgeMargin int
	Logger     *slog.Logger
}

// Positioner moves windows. Failures are logged and never returned; each
// operation reports the top-left it applied and whether the move happened.
type Positioner struct {
	native platform.Native
	opts   Options
	logger *slog.Logger
}

func New(native platform.Native, opts Options) *Positioner {
	if opts.FallbackWidth <= 0 {
		opts.FallbackWidth = DefaultFallbackWidth
	}
	if opts.FallbackHeight <= 0 {
		opts.FallbackHeight = DefaultFallbackHeight
	}
	if opts.EdgeMargin <= 0 {
		opts.EdgeMargin = DefaultEdgeMargin
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Positioner{native: native, opts: opts, logger: logger}
}

// CenterOnScreen centers the utility window in the work area of the monitor
// under the cursor.
func (p *Positioner) CenterOnScreen(utility platform.Handle) (platform.Point, bool) {
	if utility == 0 {
		return platform.Point{}, false
	}
	cursor, err := p.native.CursorPos()
	if err != nil {
		p.logger.Debug("cursor position unavailable, using origin", "err", err)
		cursor = platform.Point{}
	}
	area, err := p.native.WorkAreaAt(cursor)
	if err != nil {
		p.logger.Warn("center on screen: work area unavailable", "cursor", cursor, "err", err)
		return platform.Point{}, false
	}
	return p.move(utility, centerIn(area, p.utilitySize(utility)))
}

// CenterOnWindow centers the utility window over anchor, clamped into the
// anchor's monitor work area. A nil anchor centers on screen instead.
func (p *Positioner) CenterOnWindow(utility platform.Handle, anchor *platform.Window) (platform.Point, bool) {
	if anchor == nil {
		return p.CenterOnScreen(utility)
	}
	if utility == 0 {
		return platform.Point{}, false
	}

	size := p.utilitySize(utility)
	center := anchor.Bounds.Center()
	target := platform.Point{X: center.X - size.Width/2, Y: center.Y - size.Height/2}

	if area, err := p.native.WorkAreaAt(center); err == nil {
		target = clamp(target, size, area, p.opts.EdgeMargin)
	} else {
		p.logger.Debug("center on window: work area unavailable, not clamping", "anchor", anchor.Handle, "err", err)
	}
	return p.move(utility, target)
}

// CenterExternalWindow centers win in the work area of its monitor using its
// live bounds.
func (p *Positioner) CenterExternalWindow(win platform.Window) (platform.Point, bool) {
	if win.Handle == 0 {
		return platform.Point{}, false
	}
	bounds, err := p.native.WindowRect(win.Handle)
	if err != nil {
		p.logger.Warn("center window: bounds unavailable", "handle", win.Handle, "err", err)
		return platform.Point{}, false
	}
	area, err := p.native.WorkAreaAt(bounds.Center())
	if err != nil {
		p.logger.Warn("center window: work area unavailable", "handle", win.Handle, "err", err)
		return platform.Point{}, false
	}
	return p.move(win.Handle, centerIn(area, bounds.Size()))
}

func (p *Positioner) utilitySize(h platform.Handle) platform.Size {
	size := platform.Size{Width: p.opts.FallbackWidth, Height: p.opts.FallbackHeight}
	bounds, err := p.native.WindowRect(h)
	if err != nil {
		p.logger.Debug("utility bounds unavailable, using fallback size", "handle", h, "err", err)
		return size
	}
	if bounds.Width > 0 {
		size.Width = bounds.Width
	}
	if bounds.Height > 0 {
		size.Height = bounds.Height
	}
	return size
}

func (p *Positioner) move(h platform.Handle, to platform.Point) (platform.Point, bool) {
	if err := p.native.Move(h, to); err != nil {
		p.logger.Warn("move failed", "handle", h, "to", to, "err", err)
		return to, false
	}
	return to, true
}

func centerIn(area platform.Rect, size platform.Size) platform.Point {
	return platform.Point{
		X: area.X + (area.Width-size.Width)/2,
		Y: area.Y + (area.Height-size.Height)/2,
	}
}

// clamp pulls a window back inside area on each axis independently. An edge
// that overflows is pinned margin pixels inside the work area.
func clamp(pt platform.Point, size platform.Size, area platform.Rect, margin int) platform.Point {
	if pt.X < area.X {
		pt.X = area.X + margin
	} else if pt.X+size.Width > area.Right() {
		pt.X = area.Right() - size.Width - margin
	}
	if pt.Y < area.Y {
		pt.Y = area.Y + margin
	} else if pt.Y+size.Height > area.Bottom() {
		pt.Y = area.Bottom() - size.Height - margin
	}
	return pt
}
