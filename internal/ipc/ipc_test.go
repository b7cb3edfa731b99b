package ipc

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
	"github.com/1broseidon/winsnap/internal/snap"
)

type fixture struct {
	native  *platform.FakeNative
	client  *Client
	reloads atomic.Int32
	editor  platform.Handle
}

func startServer(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WINSNAP_SOCKET", filepath.Join(dir, "winsnap.sock"))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := presets.Open(filepath.Join(dir, "presets.json"), logger)
	if err != nil {
		t.Fatalf("open presets: %v", err)
	}

	f := &fixture{native: platform.NewFakeNative()}
	f.editor = f.native.Add(platform.FakeWindow{
		Title:   "editor",
		Class:   "Code",
		PID:     200,
		Visible: true,
		Bounds:  platform.Rect{X: 10, Y: 10, Width: 800, Height: 600},
	})
	f.native.SetForegroundHandle(f.editor)

	snapper := snap.New(f.native, snap.Options{
		Presets: store,
		Logger:  logger,
		OwnPID:  1,
		Sleep:   func(time.Duration) {},
	})
	srv, err := NewServer(snapper, ServerOptions{
		Reload: func() error {
			f.reloads.Add(1)
			return nil
		},
		HotkeyActive: func() bool { return true },
		Logger:       logger,
	})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	f.client = NewClient()
	deadline := time.Now().Add(2 * time.Second)
	for f.client.Ping() != nil {
		if time.Now().After(deadline) {
			t.Fatalf("server did not come up")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return f
}

func TestServer_StatusAndReload(t *testing.T) {
	f := startServer(t)

	status, err := f.client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.DaemonRunning || status.Hotkey != "CTRL+WIN+R" || !status.HotkeyActive || status.PresetCount != 4 {
		t.Fatalf("unexpected status %+v", status)
	}

	if err := f.client.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := f.reloads.Load(); got != 1 {
		t.Fatalf("expected one reload, got %d", got)
	}
}

func TestServer_ListAndActive(t *testing.T) {
	f := startServer(t)

	wins, err := f.client.ListWindows()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(wins) != 1 || wins[0].Handle != f.editor {
		t.Fatalf("unexpected windows %+v", wins)
	}

	active, err := f.client.ActiveWindow()
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.Title != "editor" {
		t.Fatalf("unexpected active window %+v", active)
	}

	f.native.SetForegroundHandle(0)
	if _, err := f.client.ActiveWindow(); err == nil || !strings.Contains(err.Error(), "no active window") {
		t.Fatalf("expected no active window error, got %v", err)
	}
}

func TestServer_ResizeByPresetAndSize(t *testing.T) {
	f := startServer(t)

	out, err := f.client.Resize(ResizePayload{Preset: "HD"})
	if err != nil {
		t.Fatalf("resize preset: %v", err)
	}
	if !out.Success || out.Actual != (platform.Size{Width: 1280, Height: 720}) {
		t.Fatalf("unexpected outcome %+v", out)
	}

	out, err = f.client.Resize(ResizePayload{Handle: f.editor, Width: 0, Height: 10})
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if out.Success || out.Kind != resize.KindInvalidSize {
		t.Fatalf("expected InvalidSize outcome, got %+v", out)
	}

	if _, err := f.client.Resize(ResizePayload{Preset: "Nope"}); err == nil {
		t.Fatalf("expected unknown preset error")
	}
}

func TestServer_CenterCycleActivate(t *testing.T) {
	f := startServer(t)

	data, err := f.client.Center(f.editor)
	if err != nil {
		t.Fatalf("center: %v", err)
	}
	if data.X != 560 || data.Y != 220 {
		t.Fatalf("unexpected center %+v", data)
	}

	out, err := f.client.Cycle()
	if err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if out.Requested != (platform.Size{Width: 1280, Height: 720}) {
		t.Fatalf("expected first preset, got %v", out.Requested)
	}

	if err := f.client.Activate(f.editor); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := f.client.Activate(0); err == nil {
		t.Fatalf("expected error activating zero handle")
	}
}

func TestServer_UnknownCommand(t *testing.T) {
	f := startServer(t)
	err := f.client.call(CommandType("BOGUS"), nil, nil)
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestClient_NoDaemon(t *testing.T) {
	t.Setenv("WINSNAP_SOCKET", filepath.Join(t.TempDir(), "missing.sock"))
	err := NewClient().Ping()
	if err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}
