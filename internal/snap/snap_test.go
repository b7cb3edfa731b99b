package snap

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/1broseidon/winsnap/internal/config"
	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSnapper(t *testing.T, cfg *config.Config) (*Snapper, *platform.FakeNative) {
	t.Helper()
	store, err := presets.Open(filepath.Join(t.TempDir(), "presets.json"), quietLogger())
	if err != nil {
		t.Fatalf("open presets: %v", err)
	}
	native := platform.NewFakeNative()
	s := New(native, Options{
		Config:  cfg,
		Presets: store,
		Logger:  quietLogger(),
		OwnPID:  1,
		Sleep:   func(time.Duration) {},
	})
	return s, native
}

func editor(native *platform.FakeNative) platform.Handle {
	return native.Add(platform.FakeWindow{
		Title:   "editor",
		Class:   "Code",
		PID:     200,
		Visible: true,
		Bounds:  platform.Rect{X: 10, Y: 10, Width: 800, Height: 600},
	})
}

func bounds(t *testing.T, native *platform.FakeNative, h platform.Handle) platform.Rect {
	t.Helper()
	fw, ok := native.Window(h)
	if !ok {
		t.Fatalf("window %s missing", h)
	}
	return fw.Bounds
}

func TestResize_ActiveWindowWhenHandleIsZero(t *testing.T) {
	s, native := newSnapper(t, nil)
	h := editor(native)
	native.SetForegroundHandle(h)

	out, err := s.Resize(0, platform.Size{Width: 1024, Height: 768}, false)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if !out.Success || out.Window.Handle != h {
		t.Fatalf("expected success on %s, got %+v", h, out)
	}
	if got := bounds(t, native, h); got != (platform.Rect{X: 10, Y: 10, Width: 1024, Height: 768}) {
		t.Fatalf("unexpected bounds %v", got)
	}
}

func TestResize_NoActiveWindow(t *testing.T) {
	s, _ := newSnapper(t, nil)
	if _, err := s.Resize(0, platform.Size{Width: 10, Height: 10}, false); !errors.Is(err, ErrNoActiveWindow) {
		t.Fatalf("expected ErrNoActiveWindow, got %v", err)
	}
}

func TestResize_CenterAfterResize(t *testing.T) {
	for _, viaConfig := range []bool{false, true} {
		cfg := config.DefaultConfig()
		cfg.CenterOnResize = viaConfig
		s, native := newSnapper(t, cfg)
		h := editor(native)

		out, err := s.Resize(h, platform.Size{Width: 1280, Height: 720}, !viaConfig)
		if err != nil || !out.Success {
			t.Fatalf("resize: %v %+v", err, out)
		}
		want := platform.Rect{X: 320, Y: 160, Width: 1280, Height: 720}
		if got := bounds(t, native, h); got != want {
			t.Fatalf("viaConfig=%v: expected %v, got %v", viaConfig, want, got)
		}
	}
}

func TestResize_ClosedHandleReportsBoundsUnavailable(t *testing.T) {
	s, native := newSnapper(t, nil)
	h := editor(native)
	native.Remove(h)

	out, err := s.Resize(h, platform.Size{Width: 100, Height: 100}, true)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if out.Success || out.Kind != resize.KindBoundsUnavailable {
		t.Fatalf("expected BoundsUnavailable, got %+v", out)
	}
}

func TestApplyPreset(t *testing.T) {
	s, native := newSnapper(t, nil)
	h := editor(native)

	out, err := s.ApplyPreset(h, "full hd", false)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if out.Requested != (platform.Size{Width: 1920, Height: 1080}) {
		t.Fatalf("unexpected requested size %v", out.Requested)
	}
	if _, err := s.ApplyPreset(h, "ultrawide", false); !errors.Is(err, presets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCycle_AdvancesPerWindowAndWraps(t *testing.T) {
	s, native := newSnapper(t, nil)
	a := editor(native)
	b := editor(native)

	wantA := []platform.Size{{Width: 1280, Height: 720}, {Width: 1920, Height: 1080}}
	native.SetForegroundHandle(a)
	for i, want := range wantA {
		out, err := s.Cycle()
		if err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
		if out.Requested != want {
			t.Fatalf("cycle %d: expected %v, got %v", i, want, out.Requested)
		}
	}

	native.SetForegroundHandle(b)
	out, err := s.Cycle()
	if err != nil {
		t.Fatalf("cycle b: %v", err)
	}
	if out.Requested != (platform.Size{Width: 1280, Height: 720}) {
		t.Fatalf("expected b to start at the first preset, got %v", out.Requested)
	}

	native.SetForegroundHandle(a)
	for range 2 {
		if _, err := s.Cycle(); err != nil {
			t.Fatalf("cycle: %v", err)
		}
	}
	out, err = s.Cycle()
	if err != nil {
		t.Fatalf("cycle wrap: %v", err)
	}
	if out.Requested != (platform.Size{Width: 1280, Height: 720}) {
		t.Fatalf("expected wrap to first preset, got %v", out.Requested)
	}
}

func TestPrune_DropsClosedWindows(t *testing.T) {
	s, native := newSnapper(t, nil)
	a := editor(native)
	b := editor(native)
	for _, h := range []platform.Handle{a, b} {
		native.SetForegroundHandle(h)
		if _, err := s.Cycle(); err != nil {
			t.Fatalf("cycle: %v", err)
		}
	}
	native.Remove(a)

	removed, err := s.Prune()
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if removed != 1 || s.Tracked() != 1 {
		t.Fatalf("expected 1 removed and 1 tracked, got %d/%d", removed, s.Tracked())
	}
}

func TestCenter(t *testing.T) {
	s, native := newSnapper(t, nil)
	h := editor(native)

	pt, err := s.Center(h)
	if err != nil {
		t.Fatalf("center: %v", err)
	}
	if pt != (platform.Point{X: 560, Y: 220}) {
		t.Fatalf("unexpected center %v", pt)
	}

	native.SetWorkAreas()
	if _, err := s.Center(h); err == nil {
		t.Fatalf("expected error without a work area")
	}
}

func TestActivate(t *testing.T) {
	s, native := newSnapper(t, nil)
	h := editor(native)
	native.Update(h, func(w *platform.FakeWindow) { w.Minimized = true })

	if err := s.Activate(h); err != nil {
		t.Fatalf("activate: %v", err)
	}
	fw, _ := native.Window(h)
	if fw.Minimized {
		t.Fatalf("expected window restored")
	}
	if err := s.Activate(0); err == nil {
		t.Fatalf("expected error for zero handle")
	}
}

func TestUpdateConfig_AppliesToDiscovery(t *testing.T) {
	s, native := newSnapper(t, nil)
	editor(native)
	if len(s.Windows()) != 1 {
		t.Fatalf("expected one window")
	}

	cfg := config.DefaultConfig()
	cfg.ExcludedClasses = []string{"code"}
	s.UpdateConfig(cfg)
	if got := s.Windows(); len(got) != 0 {
		t.Fatalf("expected class excluded after reload, got %v", got)
	}
}

func TestPlaceUtility(t *testing.T) {
	s, native := newSnapper(t, nil)
	target := editor(native)
	utility := native.Add(platform.FakeWindow{
		Title:   "winsnap",
		PID:     1,
		Visible: true,
		Bounds:  platform.Rect{Width: 200, Height: 100},
	})

	win, err := s.Describe(target)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	pt, ok := s.PlaceUtility(utility, &win)
	if !ok {
		t.Fatalf("expected utility placed")
	}
	// Anchor center is (410, 310).
	if pt != (platform.Point{X: 310, Y: 260}) {
		t.Fatalf("unexpected utility position %v", pt)
	}
}
