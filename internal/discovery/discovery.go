// Package discovery enumerates top-level windows and decides which of them
// are user windows that can be snapped.
package discovery

import (
	"cmp"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/1broseidon/winsnap/internal/platform"
)

// DefaultMinSize is the smallest width and height a candidate may have.
const DefaultMinSize = 50

// DefaultExcludedClasses are shell surfaces, docks and overlay windows that
// are never snap targets.
var DefaultExcludedClasses = []string{
	"Shell_TrayWnd",
	"Shell_SecondaryTrayWnd",
	"DV2ControlHost",
	"MsgrIMEWindowClass",
	"SysShadow",
	"Button",
	"Progman",
	"WorkerW",
	"ImmersiveLauncher",
	"Windows.UI.Core.CoreWindow",
	"ApplicationFrameWindow",
	"ForegroundStaging",
}

// excludedTitles is keyed by lower-cased title.
var excludedTitles = map[string]bool{
	"program manager": true,
	"settings":        true,
}

// Options tunes a Discoverer. Zero values select the defaults.
type Options struct {
	MinSize int
	// ExcludedClasses extends DefaultExcludedClasses.
	ExcludedClasses []string
	// OwnPID is the process whose windows are never candidates. Zero means
	// the current process.
	OwnPID int
	Logger *slog.Logger
}

// Discoverer builds window snapshots from the native window system.
type Discoverer struct {
	native   platform.Native
	minSize  int
	excluded map[string]bool
	ownPID   int
	logger   *slog.Logger
}

func New(native platform.Native, opts Options) *Discoverer {
	d := &Discoverer{
		native:   native,
		minSize:  opts.MinSize,
		excluded: make(map[string]bool),
		ownPID:   opts.OwnPID,
		logger:   opts.Logger,
	}
	if d.minSize <= 0 {
		d.minSize = DefaultMinSize
	}
	if d.ownPID == 0 {
		d.ownPID = os.Getpid()
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	for _, class := range DefaultExcludedClasses {
		d.excluded[strings.ToLower(class)] = true
	}
	for _, class := range opts.ExcludedClasses {
		if class = strings.TrimSpace(class); class != "" {
			d.excluded[strings.ToLower(class)] = true
		}
	}
	return d
}

// Enumerate returns every candidate window sorted by title. Windows that
// cannot be queried are skipped.
func (d *Discoverer) Enumerate() []platform.Window {
	handles, err := d.native.TopLevelWindows()
	if err != nil {
		d.logger.Warn("window enumeration failed", "err", err)
		return nil
	}

	out := make([]platform.Window, 0, len(handles))
	for _, h := range handles {
		if win, ok := d.candidate(h); ok {
			out = append(out, win)
		}
	}
	slices.SortStableFunc(out, func(a, b platform.Window) int {
		return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
	d.logger.Debug("enumerated windows", "total", len(handles), "candidates", len(out))
	return out
}

// ActiveCandidate returns the foreground window if it passes every filter.
func (d *Discoverer) ActiveCandidate() (platform.Window, bool) {
	h, err := d.native.ForegroundWindow()
	if err != nil || h == 0 {
		d.logger.Debug("no foreground window", "err", err)
		return platform.Window{}, false
	}
	return d.candidate(h)
}

// Lookup re-reads a window by handle and reports whether it is still a
// candidate.
func (d *Discoverer) Lookup(h platform.Handle) (platform.Window, bool) {
	if h == 0 {
		return platform.Window{}, false
	}
	return d.candidate(h)
}

// Describe snapshots a window without applying any filter.
func (d *Discoverer) Describe(h platform.Handle) (platform.Window, error) {
	title, err := d.native.WindowText(h)
	if err != nil {
		return platform.Window{}, err
	}
	class, err := d.native.ClassName(h)
	if err != nil {
		return platform.Window{}, err
	}
	bounds, err := d.native.WindowRect(h)
	if err != nil {
		return platform.Window{}, err
	}
	pid, err := d.native.ProcessID(h)
	if err != nil {
		// Not every window advertises its owner.
		d.logger.Debug("process id unavailable", "handle", h, "err", err)
		pid = 0
	}
	return platform.Window{
		Handle:    h,
		Title:     title,
		Class:     class,
		PID:       pid,
		Visible:   d.native.IsVisible(h),
		Minimized: d.native.IsMinimized(h),
		Bounds:    bounds,
	}, nil
}

func (d *Discoverer) candidate(h platform.Handle) (platform.Window, bool) {
	win, err := d.Describe(h)
	if err != nil {
		d.logger.Debug("skipping window", "handle", h, "err", err)
		return platform.Window{}, false
	}
	if reason := d.reject(win); reason != "" {
		d.logger.Debug("window rejected", "handle", h, "title", win.Title, "class", win.Class, "filter", reason)
		return platform.Window{}, false
	}
	win.Resizable = true
	return win, true
}

// reject runs the filter pipeline and returns the name of the first filter
// that fails, or "" when the window is a candidate.
func (d *Discoverer) reject(win platform.Window) string {
	for _, f := range pipeline {
		if f.reject(d, win) {
			return f.name
		}
	}
	return ""
}

type filter struct {
	name   string
	reject func(d *Discoverer, win platform.Window) bool
}

var pipeline = []filter{
	{"class", func(d *Discoverer, win platform.Window) bool {
		return d.excluded[strings.ToLower(win.Class)]
	}},
	{"title", func(_ *Discoverer, win platform.Window) bool {
		title := strings.TrimSpace(win.Title)
		return title == "" || excludedTitles[strings.ToLower(title)]
	}},
	{"visibility", func(_ *Discoverer, win platform.Window) bool {
		return !win.Visible
	}},
	{"size", func(d *Discoverer, win platform.Window) bool {
		return win.Bounds.Width < d.minSize || win.Bounds.Height < d.minSize
	}},
	{"tool-window", func(d *Discoverer, win platform.Window) bool {
		return d.native.IsToolWindow(win.Handle)
	}},
	{"cloaked", func(d *Discoverer, win platform.Window) bool {
		cloaked, err := d.native.IsCloaked(win.Handle)
		if err != nil {
			// Unknown cloak state keeps the window.
			return false
		}
		return cloaked
	}},
	{"own-process", func(d *Discoverer, win platform.Window) bool {
		return win.PID != 0 && win.PID == d.ownPID
	}},
	{"shell-overlay", func(_ *Discoverer, win platform.Window) bool {
		title := strings.ToLower(win.Title)
		if strings.Contains(title, "task view") || strings.Contains(title, "cortana") {
			return true
		}
		return strings.Contains(title, "search") && strings.Contains(strings.ToLower(win.Class), "windows.ui")
	}},
}
