package tui

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/snap"
)

type desktop struct {
	native  *platform.FakeNative
	snap    *snap.Snapper
	alpha   platform.Handle
	beta    platform.Handle
	utility platform.Handle
}

func newDesktop(t *testing.T) desktop {
	t.Helper()
	native := platform.NewFakeNative()
	d := desktop{native: native}
	d.alpha = native.Add(platform.FakeWindow{
		Title: "alpha", Class: "Code", PID: 200, Visible: true,
		Bounds: platform.Rect{X: 100, Y: 100, Width: 800, Height: 600},
	})
	d.beta = native.Add(platform.FakeWindow{
		Title: "beta", Class: "firefox", PID: 300, Visible: true,
		Bounds: platform.Rect{X: 40, Y: 40, Width: 1024, Height: 768},
	})
	d.utility = native.Add(platform.FakeWindow{
		Title: "term", Class: "kitty", PID: 400, Visible: true,
		Bounds: platform.Rect{X: 0, Y: 0, Width: 400, Height: 300},
	})
	d.snap = snap.New(native, snap.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		OwnPID: 1,
		Sleep:  func(time.Duration) {},
	})
	return d
}

func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func sized(t *testing.T, m model) model {
	t.Helper()
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestPicker_ListsWindowsWithoutUtility(t *testing.T) {
	d := newDesktop(t)
	m := sized(t, newModel(d.snap, Options{Utility: d.utility}))

	items := m.windows.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(items))
	}
	for _, it := range items {
		if it.(windowItem).win.Handle == d.utility {
			t.Fatalf("utility window should not be listed")
		}
	}
	if !strings.Contains(m.View(), "alpha") {
		t.Fatalf("view should list alpha:\n%s", m.View())
	}
}

func TestPicker_AppliesPresetAndQuits(t *testing.T) {
	d := newDesktop(t)
	m := sized(t, newModel(d.snap, Options{Utility: d.utility}))

	m, _ = send(t, m, enter)
	if m.stage != stagePresets {
		t.Fatalf("expected preset stage, got %v", m.stage)
	}
	if m.target == nil || m.target.Handle != d.alpha {
		t.Fatalf("expected alpha as target, got %+v", m.target)
	}
	if got := len(m.presets.Items()); got != 4 {
		t.Fatalf("expected 4 presets, got %d", got)
	}

	m, cmd := send(t, m, enter)
	if cmd == nil || !m.applying {
		t.Fatalf("expected apply command")
	}
	m, cmd = send(t, m, cmd())
	if !isQuit(cmd) {
		t.Fatalf("expected quit after successful resize")
	}
	if m.outcome == nil || !m.outcome.Success {
		t.Fatalf("expected successful outcome, got %+v", m.outcome)
	}

	fw, _ := d.native.Window(d.alpha)
	want := platform.Rect{X: 100, Y: 100, Width: 1280, Height: 720}
	if fw.Bounds != want {
		t.Fatalf("bounds = %v, want %v", fw.Bounds, want)
	}
}

func TestPicker_CenterAfterResizeToggle(t *testing.T) {
	d := newDesktop(t)
	m := sized(t, newModel(d.snap, Options{Utility: d.utility}))

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if !m.centerAfter {
		t.Fatalf("c should enable centering")
	}
	m, _ = send(t, m, enter)
	m, cmd := send(t, m, enter)
	_, _ = send(t, m, cmd())

	fw, _ := d.native.Window(d.alpha)
	want := platform.Rect{X: 320, Y: 160, Width: 1280, Height: 720}
	if fw.Bounds != want {
		t.Fatalf("bounds = %v, want %v", fw.Bounds, want)
	}
}

func TestPicker_CenterPlacesUtilityOverTarget(t *testing.T) {
	d := newDesktop(t)
	m := newModel(d.snap, Options{Utility: d.utility, Center: true})

	fw, _ := d.native.Window(d.utility)
	if got := fw.Bounds.TopLeft(); got != (platform.Point{X: 760, Y: 370}) {
		t.Fatalf("utility not centered on screen: %v", got)
	}

	m = sized(t, m)
	_, _ = send(t, m, enter)

	fw, _ = d.native.Window(d.utility)
	if got := fw.Bounds.TopLeft(); got != (platform.Point{X: 300, Y: 250}) {
		t.Fatalf("utility not placed over alpha: %v", got)
	}
}

func TestPicker_FailedResizeStaysOpen(t *testing.T) {
	d := newDesktop(t)
	m := sized(t, newModel(d.snap, Options{Utility: d.utility}))

	m, _ = send(t, m, enter)
	d.native.Remove(d.alpha)
	m, cmd := send(t, m, enter)
	m, cmd = send(t, m, cmd())
	if isQuit(cmd) {
		t.Fatalf("picker should stay open after a failed resize")
	}
	if !m.statusErr || m.status == "" {
		t.Fatalf("expected an error status, got %q", m.status)
	}
	if m.outcome == nil || m.outcome.Success {
		t.Fatalf("expected failed outcome, got %+v", m.outcome)
	}
}

func TestPicker_BackReturnsToWindows(t *testing.T) {
	d := newDesktop(t)
	m := sized(t, newModel(d.snap, Options{}))

	m, _ = send(t, m, enter)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.stage != stageWindows || m.target != nil {
		t.Fatalf("esc should return to window list")
	}
}

func TestPicker_QuitWithoutChoice(t *testing.T) {
	d := newDesktop(t)
	m := sized(t, newModel(d.snap, Options{}))

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !isQuit(cmd) {
		t.Fatalf("q should quit")
	}
	if m.outcome != nil {
		t.Fatalf("expected no outcome, got %+v", m.outcome)
	}
}

func TestPicker_EmptyDesktop(t *testing.T) {
	native := platform.NewFakeNative()
	s := snap.New(native, snap.Options{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	m := newModel(s, Options{})
	if !m.statusErr || !strings.Contains(m.status, "no resizable windows") {
		t.Fatalf("expected empty-desktop status, got %q", m.status)
	}
}
