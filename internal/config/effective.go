package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Hotkey != nil {
		if raw.Hotkey.Modifiers != nil {
			cfg.Hotkey.Modifiers = *raw.Hotkey.Modifiers
		}
		if raw.Hotkey.Key != nil {
			cfg.Hotkey.Key = *raw.Hotkey.Key
		}
	}
	if raw.HotkeyDebounceMs != nil {
		cfg.HotkeyDebounceMs = *raw.HotkeyDebounceMs
	}
	if raw.HotkeyAction != nil {
		cfg.HotkeyAction = strings.ToLower(strings.TrimSpace(*raw.HotkeyAction))
	}
	if raw.PaletteBackend != nil {
		cfg.PaletteBackend = strings.ToLower(strings.TrimSpace(*raw.PaletteBackend))
	}
	if raw.CenterOnResize != nil {
		cfg.CenterOnResize = *raw.CenterOnResize
	}
	if raw.RestoreSettleMs != nil {
		cfg.RestoreSettleMs = *raw.RestoreSettleMs
	}
	if raw.MinWindowSize != nil {
		cfg.MinWindowSize = *raw.MinWindowSize
	}
	if raw.ExcludedClasses != nil {
		seen := make(map[string]bool, len(raw.ExcludedClasses))
		for _, class := range raw.ExcludedClasses {
			key := strings.ToLower(strings.TrimSpace(class))
			if key != "" && seen[key] {
				continue
			}
			seen[key] = true
			cfg.ExcludedClasses = append(cfg.ExcludedClasses, strings.TrimSpace(class))
		}
	}
	if raw.UtilityFallback != nil {
		cfg.UtilityFallback.Width = derefInt(raw.UtilityFallback.Width, cfg.UtilityFallback.Width)
		cfg.UtilityFallback.Height = derefInt(raw.UtilityFallback.Height, cfg.UtilityFallback.Height)
	}
	if raw.EdgeMargin != nil {
		cfg.EdgeMargin = *raw.EdgeMargin
	}
	if raw.PresetsFile != nil {
		cfg.PresetsFile = *raw.PresetsFile
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}

	// Normalize the hotkey so print/explain show the canonical spelling.
	if combo, err := cfg.HotkeyCombo(); err == nil {
		mods := make([]string, 0, len(combo.Modifiers))
		for _, m := range combo.Modifiers {
			mods = append(mods, string(m))
		}
		cfg.Hotkey.Modifiers = strings.Join(mods, "+")
		cfg.Hotkey.Key = combo.Key
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
