package palette

import (
	"errors"
	"fmt"
	"strings"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
	"github.com/1broseidon/winsnap/internal/snap"
)

const (
	presetPrefix = "preset:"
	windowPrefix = "window:"
	actionCenter = "center"
	actionBack   = "back"
)

// Snapper is the slice of snap.Snapper the menu drives.
type Snapper interface {
	Windows() []platform.Window
	Active() (platform.Window, bool)
	Describe(h platform.Handle) (platform.Window, error)
	Presets() []presets.Preset
	ApplyPreset(h platform.Handle, name string, center bool) (resize.Outcome, error)
	Center(h platform.Handle) (platform.Point, error)
}

// Result is what a menu selection did.
type Result struct {
	Window  platform.Window
	Outcome *resize.Outcome // set when a preset was applied
	Moved   *platform.Point // set when the window was centered
}

// Message renders the result for notifications and the CLI.
func (r Result) Message() string {
	switch {
	case r.Outcome != nil:
		return r.Outcome.DisplayMessage()
	case r.Moved != nil:
		return fmt.Sprintf("Centered %s at %d,%d", r.Window.DisplayText(), r.Moved.X, r.Moved.Y)
	default:
		return ""
	}
}

// Menu is the launcher counterpart of the interactive picker.
type Menu struct {
	backend     Backend
	snap        Snapper
	centerAfter bool
}

// NewMenu builds a menu. centerAfter re-centers a window after a preset is
// applied.
func NewMenu(backend Backend, s Snapper, centerAfter bool) *Menu {
	return &Menu{backend: backend, snap: s, centerAfter: centerAfter}
}

// ForWindow shows the presets for window h, or for the active candidate
// when h is zero.
func (m *Menu) ForWindow(h platform.Handle) (Result, error) {
	var win platform.Window
	if h == 0 {
		active, ok := m.snap.Active()
		if !ok {
			return Result{}, snap.ErrNoActiveWindow
		}
		win = active
	} else {
		described, err := m.snap.Describe(h)
		if err != nil {
			return Result{}, err
		}
		win = described
	}
	return m.showActions(win, false)
}

// Choose lists windows, then shows the presets for the chosen one. Leaving
// the preset list returns to the window list.
func (m *Menu) Choose() (Result, error) {
	for {
		windows := m.snap.Windows()
		if len(windows) == 0 {
			return Result{}, fmt.Errorf("no resizable windows")
		}
		items := make([]Item, 0, len(windows))
		for _, w := range windows {
			items = append(items, Item{
				Label: fmt.Sprintf("%s (%dx%d)", w.DisplayText(), w.Bounds.Width, w.Bounds.Height),
				Value: windowPrefix + w.Handle.String(),
				Icon:  strings.ToLower(w.Class),
				Meta:  w.Class,
			})
		}

		picked, err := m.backend.Show("winsnap", items, "Select a window to resize")
		if err != nil {
			return Result{}, err
		}
		h, err := platform.ParseHandle(strings.TrimPrefix(picked.Value, windowPrefix))
		if err != nil {
			return Result{}, err
		}
		var win platform.Window
		for _, w := range windows {
			if w.Handle == h {
				win = w
				break
			}
		}

		res, err := m.showActions(win, true)
		if errors.Is(err, ErrCancelled) {
			continue
		}
		return res, err
	}
}

func (m *Menu) showActions(win platform.Window, withBack bool) (Result, error) {
	current := win.Bounds.Size()
	items := []Item{{
		Label:    fmt.Sprintf("%s (%s)", win.DisplayText(), current),
		IsHeader: true,
	}}
	if withBack {
		items = append(items, Item{Label: "← Back", Value: actionBack, Icon: "go-previous"})
	}
	for _, p := range m.snap.Presets() {
		items = append(items, Item{
			Label:    p.Label(),
			Value:    presetPrefix + p.Name,
			Icon:     "view-fullscreen",
			IsActive: p.Size() == current,
		})
	}
	items = append(items, Item{Label: "Center on screen", Value: actionCenter, Icon: "zoom-fit-best"})

	picked, err := m.backend.Show("resize", items, "")
	if err != nil {
		return Result{}, err
	}

	res := Result{Window: win}
	switch {
	case picked.Value == actionBack:
		return Result{}, ErrCancelled
	case picked.Value == actionCenter:
		pt, err := m.snap.Center(win.Handle)
		if err != nil {
			return res, err
		}
		res.Moved = &pt
		return res, nil
	case strings.HasPrefix(picked.Value, presetPrefix):
		out, err := m.snap.ApplyPreset(win.Handle, strings.TrimPrefix(picked.Value, presetPrefix), m.centerAfter)
		if err != nil {
			return res, err
		}
		res.Outcome = &out
		return res, out.Err()
	default:
		return res, fmt.Errorf("palette: unexpected selection %q", picked.Value)
	}
}
