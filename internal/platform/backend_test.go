package platform

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in      string
		want    Handle
		wantErr bool
	}{
		{in: "4096", want: 0x1000},
		{in: "0x1010", want: 0x1010},
		{in: " 0X2a ", want: 0x2a},
		{in: "", wantErr: true},
		{in: "window", wantErr: true},
		{in: "-1", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseHandle(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseHandle(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseHandle(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseHandle(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestHandleStringRoundTrips(t *testing.T) {
	h := Handle(0xBEEF)
	if h.String() != "0xBEEF" {
		t.Fatalf("unexpected string: %s", h)
	}
	back, err := ParseHandle(h.String())
	if err != nil || back != h {
		t.Fatalf("expected %s, got %s (%v)", h, back, err)
	}
}

func TestWindowDisplayText(t *testing.T) {
	if got := (Window{Title: "Notes", Class: "AppWindow"}).DisplayText(); got != "Notes" {
		t.Fatalf("expected title, got %q", got)
	}
	if got := (Window{Title: "  ", Class: "AppWindow"}).DisplayText(); got != "<Untitled> (AppWindow)" {
		t.Fatalf("unexpected untitled label %q", got)
	}
}

func TestErrorCode(t *testing.T) {
	err := fmt.Errorf("resize: %w", StaleHandle("SetBounds", 0x10))
	code, ok := ErrorCode(err)
	if !ok || code != CodeInvalidWindowHandle {
		t.Fatalf("expected code %d, got %d (ok=%v)", CodeInvalidWindowHandle, code, ok)
	}
	if _, ok := ErrorCode(errors.New("plain")); ok {
		t.Fatalf("expected no code for plain error")
	}
}
