package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawHotkey struct {
	Modifiers *string `yaml:"modifiers"`
	Key       *string `yaml:"key"`
}

type RawSize struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawConfig struct {
	Include          IncludeList `yaml:"include"`
	Hotkey           *RawHotkey  `yaml:"hotkey"`
	HotkeyDebounceMs *int        `yaml:"hotkey_debounce_ms"`
	HotkeyAction     *string     `yaml:"hotkey_action"`
	PaletteBackend   *string     `yaml:"palette_backend"`
	CenterOnResize   *bool       `yaml:"center_on_resize"`
	RestoreSettleMs  *int        `yaml:"restore_settle_ms"`
	MinWindowSize    *int        `yaml:"min_window_size"`
	ExcludedClasses  []string    `yaml:"excluded_classes"`
	UtilityFallback  *RawSize    `yaml:"utility_fallback"`
	EdgeMargin       *int        `yaml:"edge_margin"`
	PresetsFile      *string     `yaml:"presets_file"`
	LogLevel         *string     `yaml:"log_level"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Hotkey != nil {
		hk := RawHotkey{}
		if out.Hotkey != nil {
			hk = *out.Hotkey
		}
		if overlay.Hotkey.Modifiers != nil {
			hk.Modifiers = overlay.Hotkey.Modifiers
		}
		if overlay.Hotkey.Key != nil {
			hk.Key = overlay.Hotkey.Key
		}
		out.Hotkey = &hk
	}
	if overlay.HotkeyDebounceMs != nil {
		out.HotkeyDebounceMs = overlay.HotkeyDebounceMs
	}
	if overlay.HotkeyAction != nil {
		out.HotkeyAction = overlay.HotkeyAction
	}
	if overlay.PaletteBackend != nil {
		out.PaletteBackend = overlay.PaletteBackend
	}
	if overlay.CenterOnResize != nil {
		out.CenterOnResize = overlay.CenterOnResize
	}
	if overlay.RestoreSettleMs != nil {
		out.RestoreSettleMs = overlay.RestoreSettleMs
	}
	if overlay.MinWindowSize != nil {
		out.MinWindowSize = overlay.MinWindowSize
	}
	if overlay.ExcludedClasses != nil {
		// Lists accumulate across includes.
		out.ExcludedClasses = append(append([]string(nil), out.ExcludedClasses...), overlay.ExcludedClasses...)
	}
	if overlay.UtilityFallback != nil {
		size := RawSize{}
		if out.UtilityFallback != nil {
			size = *out.UtilityFallback
		}
		if overlay.UtilityFallback.Width != nil {
			size.Width = overlay.UtilityFallback.Width
		}
		if overlay.UtilityFallback.Height != nil {
			size.Height = overlay.UtilityFallback.Height
		}
		out.UtilityFallback = &size
	}
	if overlay.EdgeMargin != nil {
		out.EdgeMargin = overlay.EdgeMargin
	}
	if overlay.PresetsFile != nil {
		out.PresetsFile = overlay.PresetsFile
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}

	return out
}
