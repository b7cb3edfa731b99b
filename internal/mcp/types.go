package mcp

import (
	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
)

// WindowInfo describes one top-level window.
type WindowInfo struct {
	Handle    string `json:"handle"`
	Title     string `json:"title"`
	Class     string `json:"class"`
	PID       int    `json:"pid"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Minimized bool   `json:"minimized"`
}

func windowInfo(w platform.Window) WindowInfo {
	return WindowInfo{
		Handle:    w.Handle.String(),
		Title:     w.Title,
		Class:     w.Class,
		PID:       w.PID,
		X:         w.Bounds.X,
		Y:         w.Bounds.Y,
		Width:     w.Bounds.Width,
		Height:    w.Bounds.Height,
		Minimized: w.Minimized,
	}
}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct{}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// ActiveWindowInput is the input for the active_window tool.
type ActiveWindowInput struct{}

// ActiveWindowOutput is the output for the active_window tool.
type ActiveWindowOutput struct {
	Window WindowInfo `json:"window"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	Handle string `json:"handle,omitempty" jsonschema:"Window handle from list_windows (e.g. 0x1A2B). Default: the active window."`
	Preset string `json:"preset,omitempty" jsonschema:"Preset name from list_presets. Takes precedence over width and height."`
	Width  int    `json:"width,omitempty" jsonschema:"Target width in pixels"`
	Height int    `json:"height,omitempty" jsonschema:"Target height in pixels"`
	Center bool   `json:"center,omitempty" jsonschema:"Center the window on its monitor after resizing"`
}

// ResizeWindowOutput is the output for the resize_window tool.
type ResizeWindowOutput struct {
	Success      bool             `json:"success"`
	Message      string           `json:"message"`
	Kind         resize.ErrorKind `json:"kind,omitempty"`
	Window       WindowInfo       `json:"window"`
	Requested    string           `json:"requested"`
	Actual       string           `json:"actual,omitempty"`
	StateChanged bool             `json:"state_changed"`
}

// HandleInput addresses one window.
type HandleInput struct {
	Handle string `json:"handle,omitempty" jsonschema:"Window handle from list_windows (e.g. 0x1A2B). Default: the active window."`
}

// CenterWindowOutput is the output for the center_window tool.
type CenterWindowOutput struct {
	Handle string `json:"handle"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// ActivateWindowInput is the input for the activate_window tool.
type ActivateWindowInput struct {
	Handle string `json:"handle" jsonschema:"required,Window handle from list_windows (e.g. 0x1A2B)"`
}

// ActivateWindowOutput is the output for the activate_window tool.
type ActivateWindowOutput struct {
	Activated bool `json:"activated"`
}

// ListPresetsInput is the input for the list_presets tool.
type ListPresetsInput struct{}

// ListPresetsOutput is the output for the list_presets tool.
type ListPresetsOutput struct {
	Presets []presets.Preset `json:"presets"`
}
