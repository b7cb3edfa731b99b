package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths:
//
//	hotkey
//	hotkey.modifiers
//	hotkey.key
//	hotkey_debounce_ms
//	hotkey_action
//	palette_backend
//	center_on_resize
//	restore_settle_ms
//	min_window_size
//	excluded_classes
//	utility_fallback.width
//	utility_fallback.height
//	edge_margin
//	presets_file
//	log_level
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := len(parts) == 1

	switch parts[0] {
	case "hotkey":
		if leaf {
			return cfg.Hotkey, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "modifiers":
				return cfg.Hotkey.Modifiers, nil
			case "key":
				return cfg.Hotkey.Key, nil
			}
		}
	case "hotkey_debounce_ms":
		if leaf {
			return cfg.HotkeyDebounceMs, nil
		}
	case "hotkey_action":
		if leaf {
			return cfg.HotkeyAction, nil
		}
	case "palette_backend":
		if leaf {
			return cfg.PaletteBackend, nil
		}
	case "center_on_resize":
		if leaf {
			return cfg.CenterOnResize, nil
		}
	case "restore_settle_ms":
		if leaf {
			return cfg.RestoreSettleMs, nil
		}
	case "min_window_size":
		if leaf {
			return cfg.MinWindowSize, nil
		}
	case "excluded_classes":
		if leaf {
			return cfg.ExcludedClasses, nil
		}
	case "utility_fallback":
		if leaf {
			return cfg.UtilityFallback, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "width":
				return cfg.UtilityFallback.Width, nil
			case "height":
				return cfg.UtilityFallback.Height, nil
			}
		}
	case "edge_margin":
		if leaf {
			return cfg.EdgeMargin, nil
		}
	case "presets_file":
		if leaf {
			return cfg.PresetsFile, nil
		}
	case "log_level":
		if leaf {
			return cfg.LogLevel, nil
		}
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
