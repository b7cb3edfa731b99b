package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
	"github.com/1broseidon/winsnap/internal/snap"
)

func newTestServer(t *testing.T) (*Server, *platform.FakeNative, platform.Handle) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := presets.Open(filepath.Join(t.TempDir(), "presets.json"), logger)
	if err != nil {
		t.Fatalf("open presets: %v", err)
	}
	native := platform.NewFakeNative()
	h := native.Add(platform.FakeWindow{
		Title:   "terminal",
		Class:   "Alacritty",
		PID:     500,
		Visible: true,
		Bounds:  platform.Rect{X: 100, Y: 80, Width: 640, Height: 480},
	})
	native.SetForegroundHandle(h)
	snapper := snap.New(native, snap.Options{
		Presets: store,
		Logger:  logger,
		OwnPID:  1,
		Sleep:   func(time.Duration) {},
	})
	return NewServer(snapper, logger), native, h
}

func TestListWindowsAndActive(t *testing.T) {
	s, _, h := newTestServer(t)

	_, list, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(list.Windows) != 1 || list.Windows[0].Handle != h.String() || list.Windows[0].Width != 640 {
		t.Fatalf("unexpected windows %+v", list.Windows)
	}

	_, active, err := s.handleActiveWindow(context.Background(), nil, ActiveWindowInput{})
	if err != nil {
		t.Fatalf("active_window: %v", err)
	}
	if active.Window.Title != "terminal" {
		t.Fatalf("unexpected active window %+v", active.Window)
	}
}

func TestResizeWindow(t *testing.T) {
	s, native, h := newTestServer(t)

	_, out, err := s.handleResizeWindow(context.Background(), nil, ResizeWindowInput{
		Handle: h.String(),
		Width:  1000,
		Height: 700,
	})
	if err != nil {
		t.Fatalf("resize_window: %v", err)
	}
	if !out.Success || out.Actual != "1000x700" {
		t.Fatalf("unexpected output %+v", out)
	}
	if !strings.HasPrefix(out.Message, "Successfully resized terminal") {
		t.Fatalf("unexpected message %q", out.Message)
	}
	fw, _ := native.Window(h)
	if fw.Bounds.X != 100 || fw.Bounds.Y != 80 {
		t.Fatalf("expected top-left kept, got %v", fw.Bounds)
	}
}

func TestResizeWindow_PresetOnActiveWindow(t *testing.T) {
	s, native, h := newTestServer(t)

	_, out, err := s.handleResizeWindow(context.Background(), nil, ResizeWindowInput{Preset: "classic", Center: true})
	if err != nil {
		t.Fatalf("resize_window: %v", err)
	}
	if out.Requested != "1024x768" {
		t.Fatalf("unexpected requested %q", out.Requested)
	}
	fw, _ := native.Window(h)
	if fw.Bounds != (platform.Rect{X: 448, Y: 136, Width: 1024, Height: 768}) {
		t.Fatalf("expected centered window, got %v", fw.Bounds)
	}
}

func TestResizeWindow_FailureIsToolError(t *testing.T) {
	s, _, h := newTestServer(t)

	_, out, err := s.handleResizeWindow(context.Background(), nil, ResizeWindowInput{Handle: h.String(), Width: -1, Height: 10})
	if err == nil {
		t.Fatalf("expected error")
	}
	var rerr *resize.Error
	if !errors.As(err, &rerr) || rerr.Kind != resize.KindInvalidSize {
		t.Fatalf("expected InvalidSize error, got %v", err)
	}
	if out.Success {
		t.Fatalf("expected unsuccessful output")
	}

	if _, _, err := s.handleResizeWindow(context.Background(), nil, ResizeWindowInput{Handle: "zz"}); err == nil {
		t.Fatalf("expected invalid handle error")
	}
}

func TestCenterAndActivate(t *testing.T) {
	s, native, h := newTestServer(t)

	_, center, err := s.handleCenterWindow(context.Background(), nil, HandleInput{})
	if err != nil {
		t.Fatalf("center_window: %v", err)
	}
	if center.Handle != h.String() || center.X != 640 || center.Y != 280 {
		t.Fatalf("unexpected center %+v", center)
	}

	native.Update(h, func(w *platform.FakeWindow) { w.Minimized = true })
	_, act, err := s.handleActivateWindow(context.Background(), nil, ActivateWindowInput{Handle: h.String()})
	if err != nil || !act.Activated {
		t.Fatalf("activate_window: %v %+v", err, act)
	}
	if _, _, err := s.handleActivateWindow(context.Background(), nil, ActivateWindowInput{}); err == nil {
		t.Fatalf("expected missing handle error")
	}
}

func TestListPresets(t *testing.T) {
	s, _, _ := newTestServer(t)
	_, out, err := s.handleListPresets(context.Background(), nil, ListPresetsInput{})
	if err != nil {
		t.Fatalf("list_presets: %v", err)
	}
	if len(out.Presets) != 4 || out.Presets[1].Name != "Full HD" {
		t.Fatalf("unexpected presets %+v", out.Presets)
	}
}
