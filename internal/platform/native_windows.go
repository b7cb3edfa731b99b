//go:build windows

package platform

import (
	"errors"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// user32 calls golang.org/x/sys/windows has no wrapper for.
var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procGetWindowTextLengthW = user32.NewProc("GetWindowTextLengthW")
	procGetWindowTextW       = user32.NewProc("GetWindowTextW")
	procIsIconic             = user32.NewProc("IsIconic")
	procIsZoomed             = user32.NewProc("IsZoomed")
	procGetWindowLongW       = user32.NewProc("GetWindowLongW")
	procGetWindowRect        = user32.NewProc("GetWindowRect")
	procShowWindow           = user32.NewProc("ShowWindow")
	procGetWindowPlacement   = user32.NewProc("GetWindowPlacement")
	procSetWindowPlacement   = user32.NewProc("SetWindowPlacement")
	procSetWindowPos         = user32.NewProc("SetWindowPos")
	procSetForegroundWindow  = user32.NewProc("SetForegroundWindow")
	procBringWindowToTop     = user32.NewProc("BringWindowToTop")
	procGetCursorPos         = user32.NewProc("GetCursorPos")
	procMonitorFromRect      = user32.NewProc("MonitorFromRect")
	procGetMonitorInfoW      = user32.NewProc("GetMonitorInfoW")
)

const (
	swShowNormal = 1
	swRestore    = 9

	swpNoSize       = 0x0001
	swpNoZOrder     = 0x0004
	swpNoActivate   = 0x0010
	swpShowWindow   = 0x0040
	wsExToolWindow  = 0x00000080
	monitorNearest  = 2
	maxClassNameLen = 256
)

type win32Rect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type win32Point struct {
	X int32
	Y int32
}

type windowPlacement struct {
	Length         uint32
	Flags          uint32
	ShowCmd        uint32
	MinPosition    win32Point
	MaxPosition    win32Point
	NormalPosition win32Rect
}

type monitorInfo struct {
	CbSize  uint32
	Monitor win32Rect
	Work    win32Rect
	Flags   uint32
}

// EnumWindows callbacks are a scarce resource, so one is created for the
// process and results are collected through enumTarget under enumMu.
var (
	enumMu       sync.Mutex
	enumTarget   *[]Handle
	enumCallback = windows.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		*enumTarget = append(*enumTarget, Handle(hwnd))
		return 1
	})
)

// WindowsNative implements Native over user32 and dwmapi.
type WindowsNative struct{}

var _ Native = (*WindowsNative)(nil)

func NewNative() (Native, error) {
	if err := user32.Load(); err != nil {
		return nil, err
	}
	return &WindowsNative{}, nil
}

func (n *WindowsNative) Close() error { return nil }

func (n *WindowsNative) TopLevelWindows() ([]Handle, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	var out []Handle
	enumTarget = &out
	defer func() { enumTarget = nil }()

	if err := windows.EnumWindows(enumCallback, nil); err != nil {
		return nil, lastError("EnumWindows", err)
	}
	return out, nil
}

func (n *WindowsNative) ForegroundWindow() (Handle, error) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return 0, errors.New("no foreground window")
	}
	return Handle(hwnd), nil
}

func (n *WindowsNative) WindowText(h Handle) (string, error) {
	if err := n.alive("WindowText", h); err != nil {
		return "", err
	}
	length, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	if length == 0 {
		return "", nil
	}
	buf := make([]uint16, length+1)
	// A title cleared since the length query copies nothing; that is not an error.
	copied, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	return windows.UTF16ToString(buf[:copied]), nil
}

func (n *WindowsNative) ClassName(h Handle) (string, error) {
	buf := make([]uint16, maxClassNameLen)
	copied, err := windows.GetClassName(windows.HWND(h), &buf[0], int32(len(buf)))
	if err != nil {
		return "", lastError("GetClassName", err)
	}
	return windows.UTF16ToString(buf[:copied]), nil
}

func (n *WindowsNative) ProcessID(h Handle) (int, error) {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(windows.HWND(h), &pid); err != nil {
		return 0, lastError("GetWindowThreadProcessId", err)
	}
	return int(pid), nil
}

func (n *WindowsNative) IsVisible(h Handle) bool {
	return windows.IsWindowVisible(windows.HWND(h))
}

func (n *WindowsNative) IsMinimized(h Handle) bool {
	r1, _, _ := procIsIconic.Call(uintptr(h))
	return r1 != 0
}

func (n *WindowsNative) IsMaximized(h Handle) bool {
	r1, _, _ := procIsZoomed.Call(uintptr(h))
	return r1 != 0
}

func (n *WindowsNative) IsCloaked(h Handle) (bool, error) {
	var cloaked uint32
	err := windows.DwmGetWindowAttribute(windows.HWND(h), windows.DWMWA_CLOAKED, unsafe.Pointer(&cloaked), uint32(unsafe.Sizeof(cloaked)))
	if err != nil {
		return false, lastError("DwmGetWindowAttribute", err)
	}
	return cloaked != 0, nil
}

func (n *WindowsNative) IsToolWindow(h Handle) bool {
	r1, _, _ := procGetWindowLongW.Call(uintptr(h), windowLongIndex(-20))
	return uint32(r1)&wsExToolWindow != 0
}

func (n *WindowsNative) WindowRect(h Handle) (Rect, error) {
	var r win32Rect
	r1, _, e1 := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if r1 == 0 {
		return Rect{}, lastError("GetWindowRect", e1)
	}
	return RectFromEdges(int(r.Left), int(r.Top), int(r.Right), int(r.Bottom)), nil
}

// Restore issues SW_RESTORE. ShowWindow returns the previous visibility,
// not success, so only a dead window is reported as a failure.
func (n *WindowsNative) Restore(h Handle) error {
	if err := n.alive("ShowWindow", h); err != nil {
		return err
	}
	procShowWindow.Call(uintptr(h), swRestore)
	return nil
}

func (n *WindowsNative) SetNormalPlacement(h Handle) error {
	wp := windowPlacement{}
	wp.Length = uint32(unsafe.Sizeof(wp))
	r1, _, e1 := procGetWindowPlacement.Call(uintptr(h), uintptr(unsafe.Pointer(&wp)))
	if r1 == 0 {
		return lastError("GetWindowPlacement", e1)
	}
	wp.ShowCmd = swShowNormal
	r1, _, e1 = procSetWindowPlacement.Call(uintptr(h), uintptr(unsafe.Pointer(&wp)))
	if r1 == 0 {
		return lastError("SetWindowPlacement", e1)
	}
	return nil
}

func (n *WindowsNative) SetBounds(h Handle, r Rect) error {
	return n.setWindowPos(h, r.X, r.Y, r.Width, r.Height, swpNoZOrder|swpNoActivate|swpShowWindow)
}

func (n *WindowsNative) Move(h Handle, p Point) error {
	return n.setWindowPos(h, p.X, p.Y, 0, 0, swpNoSize|swpNoZOrder|swpNoActivate)
}

func (n *WindowsNative) setWindowPos(h Handle, x, y, w, ht int, flags uintptr) error {
	r1, _, e1 := procSetWindowPos.Call(
		uintptr(h),
		0,
		uintptr(x),
		uintptr(y),
		uintptr(w),
		uintptr(ht),
		flags,
	)
	if r1 == 0 {
		return lastError("SetWindowPos", e1)
	}
	return nil
}

func (n *WindowsNative) SetForeground(h Handle) error {
	r1, _, _ := procSetForegroundWindow.Call(uintptr(h))
	if r1 == 0 {
		// Foreground lock: the OS refused without setting a last error.
		return &NativeError{Op: "SetForegroundWindow", Code: CodeAccessDenied}
	}
	return nil
}

func (n *WindowsNative) BringToTop(h Handle) error {
	r1, _, e1 := procBringWindowToTop.Call(uintptr(h))
	if r1 == 0 {
		return lastError("BringWindowToTop", e1)
	}
	return nil
}

func (n *WindowsNative) CursorPos() (Point, error) {
	var p win32Point
	r1, _, e1 := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if r1 == 0 {
		return Point{}, lastError("GetCursorPos", e1)
	}
	return Point{X: int(p.X), Y: int(p.Y)}, nil
}

func (n *WindowsNative) WorkAreaAt(p Point) (Rect, error) {
	probe := win32Rect{Left: int32(p.X), Top: int32(p.Y), Right: int32(p.X) + 1, Bottom: int32(p.Y) + 1}
	hmon, _, e1 := procMonitorFromRect.Call(uintptr(unsafe.Pointer(&probe)), monitorNearest)
	if hmon == 0 {
		return Rect{}, lastError("MonitorFromRect", e1)
	}
	info := monitorInfo{}
	info.CbSize = uint32(unsafe.Sizeof(info))
	r1, _, e1 := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&info)))
	if r1 == 0 {
		return Rect{}, lastError("GetMonitorInfo", e1)
	}
	w := info.Work
	return RectFromEdges(int(w.Left), int(w.Top), int(w.Right), int(w.Bottom)), nil
}

func (n *WindowsNative) alive(op string, h Handle) error {
	if !windows.IsWindow(windows.HWND(h)) {
		return StaleHandle(op, h)
	}
	return nil
}

// windowLongIndex converts negative GWL_* indexes to the register value.
func windowLongIndex(i int32) uintptr {
	return uintptr(i)
}

func lastError(op string, callErr error) error {
	code := CodeGenFailure
	var errno syscall.Errno
	if errors.As(callErr, &errno) && errno != 0 {
		code = uint32(errno)
	}
	return &NativeError{Op: op, Code: code, Err: callErr}
}
