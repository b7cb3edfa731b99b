//go:build linux

package hotkeys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
	EventLoop()
	QuitEventLoop()
}

// x11Listener grabs keys on the root window through xgbutil keybind.
type x11Listener struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	x      x11Accessor
	logger *slog.Logger

	mu      sync.Mutex
	grabbed []string
}

var ignoreModsOnce sync.Once

// NewListener returns the hotkey listener for the native backend.
func NewListener(native platform.Native, logger *slog.Logger) (Listener, error) {
	accessor, ok := native.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("global hotkeys need an X11 backend: %w", platform.ErrUnsupported)
	}
	if logger == nil {
		logger = slog.Default()
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &x11Listener{
		xu:     xu,
		root:   accessor.RootWindow(),
		x:      accessor,
		logger: logger,
	}, nil
}

func (l *x11Listener) Register(combo Combo, fn func()) error {
	seq := combo.KeySequence()
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		l.logger.Debug("hotkey pressed", "combo", combo.String())
		fn()
	}).Connect(l.xu, l.root, seq, true)
	if err != nil {
		return fmt.Errorf("failed to grab %s (%s): %w", combo, seq, err)
	}
	l.mu.Lock()
	l.grabbed = append(l.grabbed, seq)
	l.mu.Unlock()
	return nil
}

// Unregister drops the key callbacks on the root window and releases the
// passive grabs taken by Register.
func (l *x11Listener) Unregister() {
	l.mu.Lock()
	grabbed := l.grabbed
	l.grabbed = nil
	l.mu.Unlock()

	keybind.Detach(l.xu, l.root)
	for _, seq := range grabbed {
		mods, keycodes, err := keybind.ParseString(l.xu, seq)
		if err != nil {
			continue
		}
		for _, kc := range keycodes {
			keybind.Ungrab(l.xu, l.root, mods, kc)
		}
	}
}

// Serve runs the X event loop. The loop only notices a quit request after
// the next event, so shutdown waits at most a second for it.
func (l *x11Listener) Serve(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.x.EventLoop()
	}()

	select {
	case <-done:
		return errors.New("X11 event loop exited")
	case <-ctx.Done():
		l.x.QuitEventLoop()
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return ctx.Err()
	}
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
