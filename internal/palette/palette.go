// Package palette shows winsnap menus through an external dmenu-style
// launcher (rofi, fuzzel, wofi or dmenu).
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCancelled is returned when the user closes the palette without selecting an item.
var ErrCancelled = errors.New("palette cancelled")

// Item is a single row in a palette menu.
type Item struct {
	Label    string // Display text
	Value    string // Returned on selection
	Icon     string // Icon name for backends that show icons
	Meta     string // Hidden search keywords
	IsHeader bool   // Non-selectable section header
	IsActive bool   // Highlighted as current
}

// Backend shows a list to the user and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item, message string) (Item, error)
}

// Backends lists the supported launchers in detection order.
var Backends = []string{"rofi", "fuzzel", "wofi", "dmenu"}

// lookPath is exec.LookPath, replaced in tests.
var lookPath = exec.LookPath

// DetectBackend returns the first supported launcher found in PATH.
func DetectBackend() (string, error) {
	for _, name := range Backends {
		if _, err := lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: %s)", strings.Join(Backends, ", "))
}

// NewBackend creates a backend by name. "auto" or "" detects one.
func NewBackend(name string) (Backend, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		detected, err := DetectBackend()
		if err != nil {
			return nil, err
		}
		name = detected
	}

	var b *launcher
	switch name {
	case "rofi":
		b = newRofi()
	case "fuzzel":
		b = newFuzzel()
	case "wofi":
		b = newWofi()
	case "dmenu":
		b = newDmenu()
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, %s)", name, strings.Join(Backends, ", "))
	}
	if _, err := lookPath(b.command); err != nil {
		return nil, fmt.Errorf("palette backend %q not found in PATH", b.command)
	}
	return b, nil
}
