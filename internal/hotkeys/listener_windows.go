//go:build windows

package hotkeys

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/1broseidon/winsnap/internal/platform"
	"golang.org/x/sys/windows"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterHotKey     = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey   = user32.NewProc("UnregisterHotKey")
	procGetMessageW        = user32.NewProc("GetMessageW")
	procPeekMessageW       = user32.NewProc("PeekMessageW")
	procPostThreadMessageW = user32.NewProc("PostThreadMessageW")
)

const (
	wmQuit   = 0x0012
	wmHotkey = 0x0312
	wmUser   = 0x0400
	// wmSync asks the message loop to re-register the binding set.
	wmSync = 0x8000 + 1

	pmNoRemove = 0x0000
)

type msg struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	PtX     int32
	PtY     int32
}

type binding struct {
	combo Combo
	fn    func()
}

// win32Listener owns a thread message queue. RegisterHotKey ties a hotkey
// to the calling thread, so every (un)registration happens on the loop
// thread and other goroutines post wmSync to it.
type win32Listener struct {
	logger *slog.Logger

	mu       sync.Mutex
	bindings map[int]binding
	nextID   int

	threadID atomic.Uint32
	active   map[int]bool
}

func NewListener(_ platform.Native, logger *slog.Logger) (Listener, error) {
	if err := user32.Load(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &win32Listener{
		logger:   logger,
		bindings: make(map[int]binding),
		nextID:   1,
		active:   make(map[int]bool),
	}, nil
}

func (l *win32Listener) Register(combo Combo, fn func()) error {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.bindings[id] = binding{combo: combo, fn: fn}
	l.mu.Unlock()
	l.wake()
	return nil
}

func (l *win32Listener) Unregister() {
	l.mu.Lock()
	l.bindings = make(map[int]binding)
	l.mu.Unlock()
	l.wake()
}

func (l *win32Listener) wake() {
	if tid := l.threadID.Load(); tid != 0 {
		procPostThreadMessageW.Call(uintptr(tid), wmSync, 0, 0)
	}
}

func (l *win32Listener) Serve(ctx context.Context) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	// Force creation of the thread message queue before anyone posts to it.
	var m msg
	procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, wmUser, wmUser, pmNoRemove)

	tid := windows.GetCurrentThreadId()
	l.threadID.Store(tid)
	defer l.threadID.Store(0)

	l.sync()
	defer l.releaseAll()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			procPostThreadMessageW.Call(uintptr(tid), wmQuit, 0, 0)
		case <-stop:
		}
	}()

	for {
		r1, _, e1 := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		switch int32(r1) {
		case 0:
			return ctx.Err()
		case -1:
			return fmt.Errorf("GetMessage failed: %w", e1)
		}

		switch m.Message {
		case wmHotkey:
			l.mu.Lock()
			b, ok := l.bindings[int(m.WParam)]
			l.mu.Unlock()
			if ok {
				l.logger.Debug("hotkey pressed", "combo", b.combo.String())
				b.fn()
			}
		case wmSync:
			l.sync()
		}
	}
}

// sync makes the registered hotkeys match the binding set. It must run on
// the loop thread.
func (l *win32Listener) sync() {
	l.releaseAll()

	l.mu.Lock()
	defer l.mu.Unlock()
	for id, b := range l.bindings {
		r1, _, e1 := procRegisterHotKey.Call(0, uintptr(id), uintptr(b.combo.ModifierMask()|modNoRepeat), uintptr(b.combo.VirtualKey()))
		if r1 == 0 {
			l.logger.Warn("RegisterHotKey failed", "combo", b.combo.String(), "err", e1)
			continue
		}
		l.active[id] = true
		l.logger.Info("hotkey registered", "combo", b.combo.String())
	}
}

func (l *win32Listener) releaseAll() {
	for id := range l.active {
		procUnregisterHotKey.Call(0, uintptr(id))
		delete(l.active, id)
	}
}
