// Package snap wires discovery, resizing and positioning to the current
// configuration and preset list. The daemon, IPC server, MCP tools and CLI all
// act on windows through a Snapper.
package snap

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/1broseidon/winsnap/internal/config"
	"github.com/1broseidon/winsnap/internal/discovery"
	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/position"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
)

var ErrNoActiveWindow = errors.New("no active window to snap")

type Options struct {
	Config  *config.Config
	Presets *presets.Store
	Logger  *slog.Logger
	// OwnPID overrides the process excluded from discovery.
	OwnPID int
	// Sleep replaces time.Sleep for the restore settle delay.
	Sleep func(time.Duration)
}

// Snapper is safe for concurrent use. Collaborators are rebuilt from the
// config on every call so a reload takes effect immediately.
type Snapper struct {
	native  platform.Native
	presets *presets.Store
	logger  *slog.Logger
	ownPID  int
	sleep   func(time.Duration)

	mu    sync.Mutex
	cfg   *config.Config
	cycle map[platform.Handle]int
}

func New(native platform.Native, opts Options) *Snapper {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Snapper{
		native:  native,
		presets: opts.Presets,
		logger:  logger,
		ownPID:  opts.OwnPID,
		sleep:   opts.Sleep,
		cfg:     cfg,
		cycle:   make(map[platform.Handle]int),
	}
}

// UpdateConfig swaps the configuration used by subsequent calls.
func (s *Snapper) UpdateConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Snapper) Config() *config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *Snapper) discoverer() *discovery.Discoverer {
	cfg := s.Config()
	return discovery.New(s.native, discovery.Options{
		MinSize:         cfg.MinWindowSize,
		ExcludedClasses: cfg.ExcludedClasses,
		OwnPID:          s.ownPID,
		Logger:          s.logger,
	})
}

func (s *Snapper) orchestrator() *resize.Orchestrator {
	return resize.New(s.native, resize.Options{
		SettleDelay: s.Config().RestoreSettleDelay(),
		Sleep:       s.sleep,
		Logger:      s.logger,
	})
}

func (s *Snapper) positioner() *position.Positioner {
	cfg := s.Config()
	return position.New(s.native, position.Options{
		FallbackWidth:  cfg.UtilityFallback.Width,
		FallbackHeight: cfg.UtilityFallback.Height,
		EdgeMargin:     cfg.EdgeMargin,
		Logger:         s.logger,
	})
}

func (s *Snapper) Windows() []platform.Window {
	return s.discoverer().Enumerate()
}

func (s *Snapper) Active() (platform.Window, bool) {
	return s.discoverer().ActiveCandidate()
}

func (s *Snapper) Describe(h platform.Handle) (platform.Window, error) {
	return s.discoverer().Describe(h)
}

// target resolves h to a window snapshot. Zero selects the active candidate.
// An explicit handle is not filtered: the caller asked for that window.
func (s *Snapper) target(h platform.Handle) (platform.Window, error) {
	if h == 0 {
		win, ok := s.Active()
		if !ok {
			return platform.Window{}, ErrNoActiveWindow
		}
		return win, nil
	}
	win, err := s.Describe(h)
	if err != nil {
		// Let the orchestrator report the failure with its error kind.
		s.logger.Debug("describe failed", "handle", h, "err", err)
		return platform.Window{Handle: h}, nil
	}
	return win, nil
}

// Resize sizes window h (or the active candidate when h is zero). On success
// the window is re-centered on its monitor when center is set or the config
// asks for it.
func (s *Snapper) Resize(h platform.Handle, size platform.Size, center bool) (resize.Outcome, error) {
	win, err := s.target(h)
	if err != nil {
		return resize.Outcome{}, err
	}
	out := s.orchestrator().Resize(win, size.Width, size.Height)
	if out.Success && (center || s.Config().CenterOnResize) {
		if _, moved := s.positioner().CenterExternalWindow(out.Window); !moved {
			s.logger.Debug("could not center resized window", "handle", win.Handle)
		}
	}
	return out, nil
}

// ApplyPreset resizes window h to the named preset.
func (s *Snapper) ApplyPreset(h platform.Handle, name string, center bool) (resize.Outcome, error) {
	p, ok := s.findPreset(name)
	if !ok {
		return resize.Outcome{}, fmt.Errorf("%w: %q", presets.ErrNotFound, name)
	}
	return s.Resize(h, p.Size(), center)
}

// Cycle is the hotkey action: it resizes the active candidate to the next
// preset in the list, remembering the position per window.
func (s *Snapper) Cycle() (resize.Outcome, error) {
	list := s.Presets()
	if len(list) == 0 {
		return resize.Outcome{}, fmt.Errorf("no presets configured")
	}
	win, ok := s.Active()
	if !ok {
		return resize.Outcome{}, ErrNoActiveWindow
	}

	s.mu.Lock()
	idx := s.cycle[win.Handle] % len(list)
	s.cycle[win.Handle] = idx + 1
	s.mu.Unlock()

	p := list[idx]
	s.logger.Debug("cycling preset", "handle", win.Handle, "preset", p.Label())
	return s.Resize(win.Handle, p.Size(), false)
}

// Center moves window h (or the active candidate) to the center of the work
// area of the monitor it is on.
func (s *Snapper) Center(h platform.Handle) (platform.Point, error) {
	win, err := s.target(h)
	if err != nil {
		return platform.Point{}, err
	}
	pt, moved := s.positioner().CenterExternalWindow(win)
	if !moved {
		return platform.Point{}, fmt.Errorf("could not center window %s", win.Handle)
	}
	return pt, nil
}

func (s *Snapper) Activate(h platform.Handle) error {
	if h == 0 {
		return fmt.Errorf("window handle is required")
	}
	win, err := s.target(h)
	if err != nil {
		return err
	}
	if !s.orchestrator().Activate(win) {
		return fmt.Errorf("could not activate window %s", h)
	}
	return nil
}

// CenterUtility centers the caller's own window on the monitor under the
// cursor.
func (s *Snapper) CenterUtility(utility platform.Handle) (platform.Point, bool) {
	return s.positioner().CenterOnScreen(utility)
}

// PlaceUtility centers the caller's own window over anchor, clamped to the
// anchor's work area.
func (s *Snapper) PlaceUtility(utility platform.Handle, anchor *platform.Window) (platform.Point, bool) {
	return s.positioner().CenterOnWindow(utility, anchor)
}

func (s *Snapper) Presets() []presets.Preset {
	if s.presets == nil {
		return presets.Defaults()
	}
	return s.presets.List()
}

func (s *Snapper) PresetStore() *presets.Store {
	return s.presets
}

func (s *Snapper) findPreset(name string) (presets.Preset, bool) {
	if s.presets != nil {
		return s.presets.Find(name)
	}
	for _, p := range presets.Defaults() {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return presets.Preset{}, false
}

// Prune drops cycle positions for windows that no longer exist and returns
// how many were removed.
func (s *Snapper) Prune() (int, error) {
	handles, err := s.native.TopLevelWindows()
	if err != nil {
		return 0, err
	}
	live := make(map[platform.Handle]bool, len(handles))
	for _, h := range handles {
		live[h] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for h := range s.cycle {
		if !live[h] {
			delete(s.cycle, h)
			removed++
		}
	}
	return removed, nil
}

// Tracked reports how many windows have a cycle position.
func (s *Snapper) Tracked() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cycle)
}
