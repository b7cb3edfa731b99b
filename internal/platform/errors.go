package platform

import (
	"errors"
	"fmt"
)

// Platform error codes. Every backend reports failures using the Win32
// numbering so callers can classify them uniformly.
const (
	CodeSuccess             uint32 = 0
	CodeAccessDenied        uint32 = 5
	CodeInvalidHandle       uint32 = 6
	CodeGenFailure          uint32 = 31
	CodeInvalidParameter    uint32 = 87
	CodeInvalidWindowHandle uint32 = 1400
)

// NativeError is a failed window-system call and its platform error code.
type NativeError struct {
	Op   string
	Code uint32
	Err  error
}

func (e *NativeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v (code %d)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("%s failed (code %d)", e.Op, e.Code)
}

func (e *NativeError) Unwrap() error { return e.Err }

// ErrorCode extracts the platform error code from err, if any.
func ErrorCode(err error) (uint32, bool) {
	var nerr *NativeError
	if errors.As(err, &nerr) {
		return nerr.Code, true
	}
	return 0, false
}

// StaleHandle builds the error backends return for a window that no longer exists.
func StaleHandle(op string, h Handle) error {
	return &NativeError{
		Op:   op,
		Code: CodeInvalidWindowHandle,
		Err:  fmt.Errorf("window %s does not exist", h),
	}
}
