// Package hotkeys parses hotkey combinations and registers them with the
// window system.
package hotkeys

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

type Modifier string

const (
	ModCtrl  Modifier = "CTRL"
	ModAlt   Modifier = "ALT"
	ModShift Modifier = "SHIFT"
	ModWin   Modifier = "WIN"
)

// modifierOrder is the canonical order used by Combo.String.
var modifierOrder = []Modifier{ModCtrl, ModAlt, ModShift, ModWin}

var modifierAliases = map[string]Modifier{
	"CTRL":    ModCtrl,
	"CONTROL": ModCtrl,
	"ALT":     ModAlt,
	"MOD1":    ModAlt,
	"SHIFT":   ModShift,
	"WIN":     ModWin,
	"SUPER":   ModWin,
	"MOD4":    ModWin,
}

const (
	DefaultModifiers = "CTRL+WIN"
	DefaultKey       = "R"
)

// Windows virtual-key codes used by VirtualKey.
const (
	vkF1        = 0x70
	vkF12       = 0x7B
	vkOemPlus   = 0xBB
	vkOemComma  = 0xBC
	vkOemMinus  = 0xBD
	vkOemPeriod = 0xBE
)

// reserved are combinations the operating system or shell already owns,
// spelled in canonical modifier order.
var reserved = map[string]bool{
	"ALT+TAB":         true,
	"ALT+F4":          true,
	"CTRL+ALT+DELETE": true,
	"WIN+D":           true,
	"WIN+L":           true,
	"WIN+R":           true,
	"WIN+E":           true,
	"WIN+V":           true,
	"WIN+M":           true,
	"SHIFT+WIN+S":     true,
}

// Combo is a normalized global hotkey: modifiers in canonical order plus an
// upper-cased key token.
type Combo struct {
	Modifiers []Modifier
	Key       string
}

// ParseCombo normalizes a "+"-separated modifier list and a key. Modifiers
// are de-duplicated and ordered CTRL, ALT, SHIFT, WIN; no modifiers at all
// means WIN. An empty key selects DefaultKey.
func ParseCombo(modifiers, key string) (Combo, error) {
	seen := make(map[Modifier]bool)
	for _, tok := range strings.Split(modifiers, "+") {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		mod, ok := modifierAliases[tok]
		if !ok {
			return Combo{}, fmt.Errorf("unknown modifier %q (want CTRL, ALT, SHIFT or WIN)", tok)
		}
		seen[mod] = true
	}

	var c Combo
	for _, mod := range modifierOrder {
		if seen[mod] {
			c.Modifiers = append(c.Modifiers, mod)
		}
	}
	if len(c.Modifiers) == 0 {
		c.Modifiers = []Modifier{ModWin}
	}

	c.Key = strings.ToUpper(strings.TrimSpace(key))
	if c.Key == "" {
		c.Key = DefaultKey
	}
	if strings.ContainsAny(c.Key, " \t") {
		return Combo{}, fmt.Errorf("invalid key %q", key)
	}
	return c, nil
}

func (c Combo) String() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, mod := range c.Modifiers {
		parts = append(parts, string(mod))
	}
	return strings.Join(append(parts, c.Key), "+")
}

func (c Combo) Has(mod Modifier) bool {
	return slices.Contains(c.Modifiers, mod)
}

// IsReserved reports whether the combination belongs to the OS shell.
func (c Combo) IsReserved() bool {
	return reserved[c.String()]
}

// functionKey returns n for "F<n>" with 1 <= n <= 24.
func functionKey(key string) (int, bool) {
	if len(key) < 2 || key[0] != 'F' {
		return 0, false
	}
	n, err := strconv.Atoi(key[1:])
	if err != nil || n < 1 || n > 24 {
		return 0, false
	}
	return n, true
}

// Supported reports whether the key maps to a real key code. Unsupported
// keys fall back to F12.
func (c Combo) Supported() bool {
	if _, ok := functionKey(c.Key); ok {
		return true
	}
	if len(c.Key) == 1 {
		ch := c.Key[0]
		return ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || strings.ContainsRune("+,-.", rune(ch))
	}
	return false
}

// VirtualKey returns the Windows virtual-key code for the key.
func (c Combo) VirtualKey() uint32 {
	if n, ok := functionKey(c.Key); ok {
		return uint32(vkF1 + n - 1)
	}
	if len(c.Key) == 1 {
		ch := c.Key[0]
		if ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' {
			return uint32(ch)
		}
	}
	switch c.Key {
	case "+":
		return vkOemPlus
	case ",":
		return vkOemComma
	case "-":
		return vkOemMinus
	case ".":
		return vkOemPeriod
	default:
		return vkF12
	}
}

// Windows RegisterHotKey modifier flags.
const (
	modAlt      = 0x0001
	modControl  = 0x0002
	modShift    = 0x0004
	modWin      = 0x0008
	modNoRepeat = 0x4000
)

// ModifierMask returns the RegisterHotKey modifier flags.
func (c Combo) ModifierMask() uint32 {
	var mask uint32
	for _, mod := range c.Modifiers {
		switch mod {
		case ModCtrl:
			mask |= modControl
		case ModAlt:
			mask |= modAlt
		case ModShift:
			mask |= modShift
		case ModWin:
			mask |= modWin
		}
	}
	return mask
}

var x11Modifiers = map[Modifier]string{
	ModCtrl:  "control",
	ModAlt:   "mod1",
	ModShift: "shift",
	ModWin:   "mod4",
}

var x11Keys = map[string]string{
	"+": "plus",
	",": "comma",
	"-": "minus",
	".": "period",
}

// KeySequence renders the combo in xgbutil keybind syntax, e.g.
// "control-mod4-r".
func (c Combo) KeySequence() string {
	parts := make([]string, 0, len(c.Modifiers)+1)
	for _, mod := range c.Modifiers {
		parts = append(parts, x11Modifiers[mod])
	}

	key := "F12"
	switch {
	case !c.Supported():
	case x11Keys[c.Key] != "":
		key = x11Keys[c.Key]
	case len(c.Key) == 1:
		key = strings.ToLower(c.Key)
	default:
		key = c.Key
	}
	return strings.Join(append(parts, key), "-")
}
