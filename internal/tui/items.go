package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
)

// windowItem is a list item representing a resizable window.
type windowItem struct {
	win platform.Window
}

func (i windowItem) Title() string {
	if i.win.Minimized {
		return dimStyle.Render("_") + " " + i.win.DisplayText()
	}
	return i.win.DisplayText()
}

func (i windowItem) Description() string {
	b := i.win.Bounds
	return fmt.Sprintf("%s  %s  %dx%d at %d,%d", i.win.Handle, i.win.Class, b.Width, b.Height, b.X, b.Y)
}

func (i windowItem) FilterValue() string { return i.win.Title + " " + i.win.Class }

// presetItem is a list item representing a size preset.
type presetItem struct {
	preset  presets.Preset
	current bool
}

func (i presetItem) Title() string {
	if i.current {
		return markStyle.Render("●") + " " + i.preset.Name
	}
	return i.preset.Name
}

func (i presetItem) Description() string {
	if i.current {
		return fmt.Sprintf("%s (current size)", i.preset.Size())
	}
	return i.preset.Size().String()
}

func (i presetItem) FilterValue() string { return i.preset.Name }

func buildWindowItems(windows []platform.Window, skip platform.Handle) []list.Item {
	items := make([]list.Item, 0, len(windows))
	for _, w := range windows {
		if skip != 0 && w.Handle == skip {
			continue
		}
		items = append(items, windowItem{win: w})
	}
	return items
}

func buildPresetItems(ps []presets.Preset, current platform.Size) []list.Item {
	items := make([]list.Item, 0, len(ps))
	for _, p := range ps {
		items = append(items, presetItem{preset: p, current: p.Size() == current})
	}
	return items
}
