package position

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/winsnap/internal/platform"
)

func newPositioner(native platform.Native) *Positioner {
	return New(native, Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
}

func TestCenterOnScreen_UsesCursorMonitor(t *testing.T) {
	native := platform.NewFakeNative()
	native.SetWorkAreas(
		platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
		platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1400},
	)
	native.SetCursor(platform.Point{X: 2500, Y: 700}, nil)
	utility := native.Add(platform.FakeWindow{Bounds: platform.Rect{Width: 300, Height: 500}})
	p := newPositioner(native)

	got, ok := p.CenterOnScreen(utility)
	if !ok {
		t.Fatalf("expected move to be applied")
	}
	want := platform.Point{X: 1920 + (2560-300)/2, Y: (1400 - 500) / 2}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if fw, _ := native.Window(utility); fw.Bounds.TopLeft() != want || fw.Bounds.Size() != (platform.Size{Width: 300, Height: 500}) {
		t.Fatalf("unexpected utility bounds %v", fw.Bounds)
	}
}

func TestCenterOnScreen_Idempotent(t *testing.T) {
	native := platform.NewFakeNative()
	native.SetCursor(platform.Point{X: 100, Y: 100}, nil)
	utility := native.Add(platform.FakeWindow{Bounds: platform.Rect{X: 7, Y: 9, Width: 280, Height: 400}})
	p := newPositioner(native)

	first, ok1 := p.CenterOnScreen(utility)
	second, ok2 := p.CenterOnScreen(utility)
	if !ok1 || !ok2 || first != second {
		t.Fatalf("expected identical positions, got %+v and %+v", first, second)
	}
}

func TestCenterOnScreen_CursorFailureFallsBackToOrigin(t *testing.T) {
	native := platform.NewFakeNative()
	native.SetWorkAreas(
		platform.Rect{X: -1920, Y: 0, Width: 1920, Height: 1080},
		platform.Rect{X: 0, Y: 0, Width: 1000, Height: 800},
	)
	native.SetCursor(platform.Point{X: -500, Y: 10}, errors.New("no cursor"))
	utility := native.Add(platform.FakeWindow{Bounds: platform.Rect{Width: 200, Height: 200}})
	p := newPositioner(native)

	got, _ := p.CenterOnScreen(utility)
	if got != (platform.Point{X: 400, Y: 300}) {
		t.Fatalf("expected primary monitor placement, got %+v", got)
	}
}

func TestCenterOnScreen_FallbackSize(t *testing.T) {
	native := platform.NewFakeNative()
	native.SetWorkAreas(platform.Rect{X: 0, Y: 0, Width: 1000, Height: 1000})
	utility := native.Add(platform.FakeWindow{Bounds: platform.Rect{Width: 0, Height: 0}})
	p := newPositioner(native)

	got, _ := p.CenterOnScreen(utility)
	want := platform.Point{X: (1000 - DefaultFallbackWidth) / 2, Y: (1000 - DefaultFallbackHeight) / 2}
	if got != want {
		t.Fatalf("expected fallback-size placement %+v, got %+v", want, got)
	}
}

func TestCenterOnScreen_NoWorkAreaDoesNotMove(t *testing.T) {
	native := platform.NewFakeNative()
	native.SetWorkAreas()
	utility := native.Add(platform.FakeWindow{Bounds: platform.Rect{X: 5, Y: 5, Width: 100, Height: 100}})
	p := newPositioner(native)

	if _, ok := p.CenterOnScreen(utility); ok {
		t.Fatalf("expected no move without a work area")
	}
	if fw, _ := native.Window(utility); fw.Bounds.TopLeft() != (platform.Point{X: 5, Y: 5}) {
		t.Fatalf("utility moved unexpectedly: %v", fw.Bounds)
	}
}

func TestCenterOnWindow(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}
	tests := []struct {
		name   string
		anchor platform.Rect
		want   platform.Point
	}{
		{
			name:   "centered over anchor",
			anchor: platform.Rect{X: 500, Y: 300, Width: 800, Height: 600},
			want:   platform.Point{X: 900 - 140, Y: 600 - 200},
		},
		{
			name:   "near left edge pins to margin",
			anchor: platform.Rect{X: 0, Y: 300, Width: 10, Height: 600},
			want:   platform.Point{X: 10, Y: 600 - 200},
		},
		{
			name:   "near right edge",
			anchor: platform.Rect{X: 1900, Y: 300, Width: 20, Height: 600},
			want:   platform.Point{X: 1920 - 280 - 10, Y: 600 - 200},
		},
		{
			name:   "near top and bottom",
			anchor: platform.Rect{X: 500, Y: 0, Width: 800, Height: 100},
			want:   platform.Point{X: 900 - 140, Y: 10},
		},
		{
			name:   "bottom edge",
			anchor: platform.Rect{X: 500, Y: 1000, Width: 800, Height: 40},
			want:   platform.Point{X: 900 - 140, Y: 1040 - 400 - 10},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native := platform.NewFakeNative()
			native.SetWorkAreas(area)
			utility := native.Add(platform.FakeWindow{Bounds: platform.Rect{Width: 280, Height: 400}})
			p := newPositioner(native)

			anchor := platform.Window{Handle: 0x99, Bounds: tt.anchor}
			got, ok := p.CenterOnWindow(utility, &anchor)
			if !ok {
				t.Fatalf("expected move to be applied")
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestCenterOnWindow_LeftEdgeOnSecondaryMonitor(t *testing.T) {
	native := platform.NewFakeNative()
	secondary := platform.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}
	native.SetWorkAreas(platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}, secondary)
	utility := native.Add(platform.FakeWindow{Bounds: platform.Rect{Width: 280, Height: 400}})
	p := newPositioner(native)

	anchor := platform.Window{Handle: 0x99, Bounds: platform.Rect{X: 1925, Y: 200, Width: 6, Height: 300}}
	got, _ := p.CenterOnWindow(utility, &anchor)
	if got.X != secondary.X+10 {
		t.Fatalf("expected left = workArea.left+10 (%d), got %d", secondary.X+10, got.X)
	}
}

func TestCenterOnWindow_EdgeMarginOption(t *testing.T) {
	tests := []struct {
		name   string
		margin int
		want   int
	}{
		{name: "zero uses default", margin: 0, want: DefaultEdgeMargin},
		{name: "negative uses default", margin: -5, want: DefaultEdgeMargin},
		{name: "explicit", margin: 24, want: 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			native := platform.NewFakeNative()
			utility := native.Add(platform.FakeWindow{Bounds: platform.Rect{Width: 280, Height: 400}})
			p := New(native, Options{EdgeMargin: tt.margin})

			anchor := platform.Window{Handle: 0x99, Bounds: platform.Rect{X: 0, Y: 300, Width: 10, Height: 600}}
			got, ok := p.CenterOnWindow(utility, &anchor)
			if !ok {
				t.Fatalf("expected move to be applied")
			}
			if got.X != tt.want {
				t.Fatalf("expected left = %d, got %d", tt.want, got.X)
			}
		})
	}
}

func TestCenterOnWindow_NilAnchorCentersOnScreen(t *testing.T) {
	native := platform.NewFakeNative()
	utility := native.Add(platform.FakeWindow{Bounds: platform.Rect{Width: 280, Height: 400}})
	p := newPositioner(native)

	viaWindow, _ := p.CenterOnWindow(utility, nil)
	viaScreen, _ := p.CenterOnScreen(utility)
	if viaWindow != viaScreen {
		t.Fatalf("expected nil anchor to center on screen: %+v vs %+v", viaWindow, viaScreen)
	}
}

func TestCenterExternalWindow_UsesLiveBounds(t *testing.T) {
	native := platform.NewFakeNative()
	native.SetWorkAreas(
		platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
		platform.Rect{X: 1920, Y: 0, Width: 2560, Height: 1400},
	)
	h := native.Add(platform.FakeWindow{Bounds: platform.Rect{X: 2000, Y: 100, Width: 1280, Height: 720}})
	p := newPositioner(native)

	stale := platform.Window{Handle: h, Bounds: platform.Rect{X: 10, Y: 10, Width: 300, Height: 300}}
	got, ok := p.CenterExternalWindow(stale)
	if !ok {
		t.Fatalf("expected move to be applied")
	}
	want := platform.Point{X: 1920 + (2560-1280)/2, Y: (1400 - 720) / 2}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	fw, _ := native.Window(h)
	if fw.Bounds != (platform.Rect{X: want.X, Y: want.Y, Width: 1280, Height: 720}) {
		t.Fatalf("unexpected bounds %v", fw.Bounds)
	}

	again, _ := p.CenterExternalWindow(stale)
	if again != got {
		t.Fatalf("expected idempotent centering, got %+v then %+v", got, again)
	}
}

func TestCenterExternalWindow_OversizedIsNotClamped(t *testing.T) {
	native := platform.NewFakeNative()
	native.SetWorkAreas(platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040})
	h := native.Add(platform.FakeWindow{Bounds: platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}})
	p := newPositioner(native)

	got, _ := p.CenterExternalWindow(platform.Window{Handle: h})
	if got != (platform.Point{X: 0, Y: -20}) {
		t.Fatalf("expected unclamped centering, got %+v", got)
	}
}

func TestCenterExternalWindow_ClosedWindowIsLogged(t *testing.T) {
	native := platform.NewFakeNative()
	h := native.Add(platform.FakeWindow{Bounds: platform.Rect{Width: 100, Height: 100}})
	native.Remove(h)
	p := newPositioner(native)

	if _, ok := p.CenterExternalWindow(platform.Window{Handle: h}); ok {
		t.Fatalf("expected closed window not to be moved")
	}
}
