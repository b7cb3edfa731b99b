// Package daemon runs winsnap's long-lived services: the global hotkey, the
// IPC server, the config watcher and the reconciler.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/1broseidon/winsnap/internal/config"
	"github.com/1broseidon/winsnap/internal/hotkeys"
	"github.com/1broseidon/winsnap/internal/ipc"
	"github.com/1broseidon/winsnap/internal/palette"
	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/snap"
	"github.com/thejerf/suture/v4"
)

// ListenerFactory creates the hotkey listener for a backend.
type ListenerFactory func(platform.Native, *slog.Logger) (hotkeys.Listener, error)

// MenuFactory builds the launcher menu opened by the "menu" hotkey action.
type MenuFactory func(cfg *config.Config, s *snap.Snapper) (HotkeyMenu, error)

// HotkeyMenu shows the preset menu for a window; zero means the active one.
type HotkeyMenu interface {
	ForWindow(h platform.Handle) (palette.Result, error)
}

func newPaletteMenu(cfg *config.Config, s *snap.Snapper) (HotkeyMenu, error) {
	backend, err := palette.NewBackend(cfg.PaletteBackend)
	if err != nil {
		return nil, err
	}
	return palette.NewMenu(backend, s, cfg.CenterOnResize), nil
}

type Options struct {
	// ConfigPath is the config file to load; empty selects the default path.
	ConfigPath string
	Logger     *slog.Logger
	// NewListener defaults to hotkeys.NewListener.
	NewListener ListenerFactory
	// NewMenu defaults to a palette menu on the configured launcher.
	NewMenu MenuFactory
	// PruneInterval is how often closed windows are forgotten.
	PruneInterval time.Duration
	// WatchDebounce coalesces bursts of file events into one reload.
	WatchDebounce time.Duration
}

// Daemon owns the Snapper and the services that drive it.
type Daemon struct {
	native     platform.Native
	configPath string
	logger     *slog.Logger
	opts       Options

	snapper *snap.Snapper
	store   *presets.Store

	reloadMu sync.Mutex
	files    []string
	listener hotkeys.Listener
	bound    string
	hotkeyUp atomic.Bool
	menuOpen atomic.Bool
}

// New loads configuration and presets and prepares the services.
func New(native platform.Native, opts Options) (*Daemon, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.NewListener == nil {
		opts.NewListener = hotkeys.NewListener
	}
	if opts.NewMenu == nil {
		opts.NewMenu = newPaletteMenu
	}
	if opts.WatchDebounce <= 0 {
		opts.WatchDebounce = 250 * time.Millisecond
	}

	path := opts.ConfigPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	presetsPath, err := res.Config.ResolvedPresetsFile()
	if err != nil {
		return nil, err
	}
	store, err := presets.Open(presetsPath, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load presets: %w", err)
	}

	d := &Daemon{
		native:     native,
		configPath: path,
		logger:     opts.Logger,
		opts:       opts,
		store:      store,
		files:      res.Files,
	}
	d.snapper = snap.New(native, snap.Options{
		Config:  res.Config,
		Presets: store,
		Logger:  opts.Logger,
	})
	return d, nil
}

func (d *Daemon) Snapper() *snap.Snapper { return d.snapper }

// HotkeyActive reports whether the global hotkey is currently registered.
func (d *Daemon) HotkeyActive() bool { return d.hotkeyUp.Load() }

// Reload re-reads config and presets and rebinds the hotkey when it changed.
// A config that fails to load leaves the running configuration in place.
func (d *Daemon) Reload() error {
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()

	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		d.logger.Warn("config reload failed", "err", err)
		return err
	}
	d.files = res.Files
	d.snapper.UpdateConfig(res.Config)

	if err := d.store.Reload(); err != nil {
		d.logger.Warn("presets reload failed", "err", err)
	}

	if d.listener != nil {
		if err := d.bindLocked(res.Config); err != nil {
			d.logger.Warn("hotkey rebind failed", "err", err)
		}
	}
	d.logger.Info("configuration reloaded", "presets", len(d.store.List()))
	return nil
}

// watchedFiles returns the config file, its includes and the presets file.
func (d *Daemon) watchedFiles() []string {
	d.reloadMu.Lock()
	defer d.reloadMu.Unlock()
	files := append([]string{d.configPath}, d.files...)
	return append(files, d.store.Path())
}

func (d *Daemon) onHotkey() {
	cfg := d.snapper.Config()
	if cfg.HotkeyAction == config.ActionMenu {
		// The launcher blocks until the user picks, so keep the hotkey loop free.
		if d.menuOpen.CompareAndSwap(false, true) {
			go d.showMenu(cfg)
		}
		return
	}

	out, err := d.snapper.Cycle()
	if err != nil {
		d.logger.Info("hotkey ignored", "reason", err)
		return
	}
	if !out.Success {
		d.logger.Warn("hotkey resize failed", "kind", out.Kind, "message", out.DisplayMessage())
		return
	}
	d.logger.Info(out.DisplayMessage())
}

func (d *Daemon) showMenu(cfg *config.Config) {
	defer d.menuOpen.Store(false)

	menu, err := d.opts.NewMenu(cfg, d.snapper)
	if err != nil {
		d.logger.Warn("palette unavailable", "err", err)
		return
	}
	res, err := menu.ForWindow(0)
	switch {
	case errors.Is(err, palette.ErrCancelled):
		d.logger.Debug("palette cancelled")
	case errors.Is(err, snap.ErrNoActiveWindow):
		d.logger.Info("hotkey ignored", "reason", err)
	case err != nil:
		d.logger.Warn("palette action failed", "err", err)
	default:
		d.logger.Info(res.Message())
	}
}

// bindLocked registers the configured hotkey, replacing any earlier binding.
// It is a no-op when the combination and debounce are unchanged.
func (d *Daemon) bindLocked(cfg *config.Config) error {
	combo, err := cfg.HotkeyCombo()
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%s/%s", combo, cfg.HotkeyDebounce())
	if key == d.bound && d.hotkeyUp.Load() {
		return nil
	}

	d.listener.Unregister()
	d.hotkeyUp.Store(false)
	debouncer := hotkeys.NewDebouncer(cfg.HotkeyDebounce())
	if err := d.listener.Register(combo, debouncer.Wrap(d.onHotkey)); err != nil {
		d.bound = ""
		return fmt.Errorf("failed to register hotkey %s: %w", combo, err)
	}
	d.bound = key
	d.hotkeyUp.Store(true)
	d.logger.Info("hotkey registered", "hotkey", combo.String())
	return nil
}

func (d *Daemon) serveHotkey(ctx context.Context) error {
	listener, err := d.opts.NewListener(d.native, d.logger)
	if err != nil {
		if errors.Is(err, platform.ErrUnsupported) {
			d.logger.Warn("global hotkey unavailable on this backend; use `winsnap cycle` instead", "err", err)
			return suture.ErrDoNotRestart
		}
		return err
	}

	d.reloadMu.Lock()
	d.listener = listener
	d.bound = ""
	err = d.bindLocked(d.snapper.Config())
	d.reloadMu.Unlock()
	if err != nil {
		return err
	}

	defer func() {
		d.reloadMu.Lock()
		listener.Unregister()
		d.listener = nil
		d.hotkeyUp.Store(false)
		d.reloadMu.Unlock()
	}()
	return listener.Serve(ctx)
}

// Run starts every service and blocks until ctx is done or SIGINT/SIGTERM
// arrives. SIGHUP reloads configuration.
func (d *Daemon) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				d.logger.Info("received SIGHUP, reloading config")
				d.Reload()
			}
		}
	}()

	server, err := ipc.NewServer(d.snapper, ipc.ServerOptions{
		Reload:       d.Reload,
		HotkeyActive: d.HotkeyActive,
		Logger:       d.logger,
	})
	if err != nil {
		return err
	}

	reconciler := NewReconciler(ReconcilerConfig{
		Interval: d.opts.PruneInterval,
		Logger:   d.logger,
	}, d.snapper.Prune)
	reconciler.ReconcileNow()

	sup := newSupervisor(d.logger)
	add(sup, newServiceFunc("hotkey", d.serveHotkey))
	add(sup, newServiceFunc("ipc", server.Serve))
	add(sup, newServiceFunc("watcher", d.watch))
	add(sup, reconciler)

	d.logger.Info("winsnap daemon started", "config", d.configPath, "presets", d.store.Path())
	err = sup.Serve(ctx)
	d.logger.Info("shutting down winsnap daemon")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
