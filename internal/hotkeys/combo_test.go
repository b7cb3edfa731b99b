package hotkeys

import "testing"

func TestParseCombo(t *testing.T) {
	tests := []struct {
		mods, key string
		want      string
	}{
		{"CTRL+WIN", "R", "CTRL+WIN+R"},
		{"win+ctrl", "r", "CTRL+WIN+R"},
		{" shift + alt + ctrl ", "f5", "CTRL+ALT+SHIFT+F5"},
		{"", "K", "WIN+K"},
		{"CTRL+CTRL", "1", "CTRL+1"},
		{"control+super", "", "CTRL+WIN+R"},
	}
	for _, tt := range tests {
		c, err := ParseCombo(tt.mods, tt.key)
		if err != nil {
			t.Fatalf("ParseCombo(%q, %q): unexpected error: %v", tt.mods, tt.key, err)
		}
		if c.String() != tt.want {
			t.Fatalf("ParseCombo(%q, %q) = %s, want %s", tt.mods, tt.key, c, tt.want)
		}
	}

	if _, err := ParseCombo("CTRL+HYPER", "R"); err == nil {
		t.Fatalf("expected error for unknown modifier")
	}
}

func TestComboIsReserved(t *testing.T) {
	tests := []struct {
		mods, key string
		want      bool
	}{
		{"ALT", "TAB", true},
		{"ALT", "F4", true},
		{"ALT+CTRL", "DELETE", true},
		{"WIN", "L", true},
		{"", "D", true},
		{"SHIFT+WIN", "S", true},
		{"CTRL+WIN", "R", false},
		{"CTRL+SHIFT", "S", false},
	}
	for _, tt := range tests {
		c, err := ParseCombo(tt.mods, tt.key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.IsReserved(); got != tt.want {
			t.Fatalf("%s: IsReserved() = %v, want %v", c, got, tt.want)
		}
	}
}

func TestComboVirtualKey(t *testing.T) {
	tests := []struct {
		key  string
		want uint32
	}{
		{"F1", 0x70},
		{"F12", 0x7B},
		{"F24", 0x87},
		{"A", 'A'},
		{"z", 'Z'},
		{"7", '7'},
		{"+", 0xBB},
		{",", 0xBC},
		{"-", 0xBD},
		{".", 0xBE},
		{"F25", 0x7B},
		{"ESCAPE", 0x7B},
	}
	for _, tt := range tests {
		c, err := ParseCombo("CTRL", tt.key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.VirtualKey(); got != tt.want {
			t.Fatalf("VirtualKey(%q) = %#x, want %#x", tt.key, got, tt.want)
		}
	}
}

func TestComboModifierMask(t *testing.T) {
	c, _ := ParseCombo("CTRL+ALT+SHIFT+WIN", "R")
	if got := c.ModifierMask(); got != 0x000F {
		t.Fatalf("expected all modifier bits, got %#x", got)
	}
	c, _ = ParseCombo("", "R")
	if got := c.ModifierMask(); got != 0x0008 {
		t.Fatalf("expected MOD_WIN, got %#x", got)
	}
}

func TestComboKeySequence(t *testing.T) {
	tests := []struct {
		mods, key string
		want      string
	}{
		{"CTRL+WIN", "R", "control-mod4-r"},
		{"ALT+SHIFT", "F5", "mod1-shift-F5"},
		{"CTRL", "-", "control-minus"},
		{"WIN", "PAUSE", "mod4-F12"},
	}
	for _, tt := range tests {
		c, err := ParseCombo(tt.mods, tt.key)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := c.KeySequence(); got != tt.want {
			t.Fatalf("KeySequence(%s) = %q, want %q", c, got, tt.want)
		}
	}
}
