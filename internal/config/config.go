package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/winsnap/internal/hotkeys"
	"gopkg.in/yaml.v3"
)

// Hotkey actions.
const (
	// ActionCycle resizes the active window to its next preset.
	ActionCycle = "cycle"
	// ActionMenu opens the launcher menu for the active window.
	ActionMenu = "menu"
)

// Hotkey is the global snap hotkey.
type Hotkey struct {
	Modifiers string `yaml:"modifiers"`
	Key       string `yaml:"key"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config is the effective winsnap configuration.
type Config struct {
	Hotkey           Hotkey `yaml:"hotkey"`
	HotkeyDebounceMs int    `yaml:"hotkey_debounce_ms"`
	HotkeyAction     string `yaml:"hotkey_action"`

	// PaletteBackend selects the launcher used by the menu: auto, rofi,
	// fuzzel, wofi or dmenu.
	PaletteBackend string `yaml:"palette_backend"`

	// CenterOnResize centers a window on its monitor after a successful resize.
	CenterOnResize  bool `yaml:"center_on_resize"`
	RestoreSettleMs int  `yaml:"restore_settle_ms"`

	MinWindowSize   int      `yaml:"min_window_size"`
	ExcludedClasses []string `yaml:"excluded_classes"`

	UtilityFallback Size `yaml:"utility_fallback"`
	EdgeMargin      int  `yaml:"edge_margin"`

	PresetsFile string `yaml:"presets_file"`
	LogLevel    string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		Hotkey: Hotkey{
			Modifiers: hotkeys.DefaultModifiers,
			Key:       hotkeys.DefaultKey,
		},
		HotkeyDebounceMs: 150,
		HotkeyAction:     ActionCycle,
		PaletteBackend:   "auto",
		CenterOnResize:   false,
		RestoreSettleMs:  100,
		MinWindowSize:    50,
		ExcludedClasses:  []string{},
		UtilityFallback:  Size{Width: 280, Height: 400},
		EdgeMargin:       10,
		PresetsFile:      "",
		LogLevel:         "info",
	}
}

// HotkeyCombo parses the configured hotkey.
func (c *Config) HotkeyCombo() (hotkeys.Combo, error) {
	return hotkeys.ParseCombo(c.Hotkey.Modifiers, c.Hotkey.Key)
}

func (c *Config) RestoreSettleDelay() time.Duration {
	return time.Duration(c.RestoreSettleMs) * time.Millisecond
}

func (c *Config) HotkeyDebounce() time.Duration {
	return time.Duration(c.HotkeyDebounceMs) * time.Millisecond
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ResolvedPresetsFile returns presets_file with "~" expanded, or the default
// presets path next to the config file when unset.
func (c *Config) ResolvedPresetsFile() (string, error) {
	path := strings.TrimSpace(c.PresetsFile)
	if path == "" {
		return DefaultPresetsPath()
	}
	return expandHome(path)
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	combo, err := c.HotkeyCombo()
	if err != nil {
		return &ValidationError{Path: "hotkey.modifiers", Err: err}
	}
	if combo.IsReserved() {
		return &ValidationError{Path: "hotkey", Err: fmt.Errorf("%s is reserved by the system", combo)}
	}
	if c.HotkeyDebounceMs < 0 {
		return &ValidationError{Path: "hotkey_debounce_ms", Err: fmt.Errorf("hotkey_debounce_ms must be >= 0")}
	}
	switch c.HotkeyAction {
	case ActionCycle, ActionMenu:
	default:
		return &ValidationError{Path: "hotkey_action", Err: fmt.Errorf("hotkey_action must be %q or %q", ActionCycle, ActionMenu)}
	}
	switch c.PaletteBackend {
	case "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}
	if c.RestoreSettleMs < 1 || c.RestoreSettleMs > 2000 {
		return &ValidationError{Path: "restore_settle_ms", Err: fmt.Errorf("restore_settle_ms must be between 1 and 2000")}
	}
	if c.MinWindowSize < 1 {
		return &ValidationError{Path: "min_window_size", Err: fmt.Errorf("min_window_size must be >= 1")}
	}
	for i, class := range c.ExcludedClasses {
		if strings.TrimSpace(class) == "" {
			return &ValidationError{Path: "excluded_classes", Err: fmt.Errorf("excluded_classes[%d] is empty", i)}
		}
	}
	if c.UtilityFallback.Width <= 0 {
		return &ValidationError{Path: "utility_fallback.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.UtilityFallback.Height <= 0 {
		return &ValidationError{Path: "utility_fallback.height", Err: fmt.Errorf("height must be > 0")}
	}
	if c.EdgeMargin < 1 {
		return &ValidationError{Path: "edge_margin", Err: fmt.Errorf("edge_margin must be >= 1")}
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	if warnings := c.validationWarnings(); len(warnings) > 0 {
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, "warning:", w)
		}
	}

	return nil
}

func (c *Config) validationWarnings() []string {
	if c == nil {
		return nil
	}
	var warnings []string
	if combo, err := c.HotkeyCombo(); err == nil && !combo.Supported() {
		warnings = append(warnings, fmt.Sprintf("hotkey.key %q is not a supported key; F12 will be used", combo.Key))
	}
	if c.MinWindowSize > 400 {
		warnings = append(warnings, fmt.Sprintf("min_window_size %d hides most windows", c.MinWindowSize))
	}
	return warnings
}
