package resize

import (
	"fmt"

	"github.com/1broseidon/winsnap/internal/platform"
)

// ErrorKind classifies a failed resize.
type ErrorKind string

const (
	KindNone                  ErrorKind = ""
	KindInvalidHandle         ErrorKind = "InvalidHandle"
	KindInvalidSize           ErrorKind = "InvalidSize"
	KindBoundsUnavailable     ErrorKind = "BoundsUnavailable"
	KindRestoreFailed         ErrorKind = "RestoreFailed"
	KindNativeOperationFailed ErrorKind = "NativeOperationFailed"
)

const (
	msgInvalidHandle     = "Invalid window handle"
	msgInvalidSize       = "Invalid target size (width and height must be greater than 0)"
	msgBoundsUnavailable = "Unable to read current bounds"
)

// Outcome is the result of one resize attempt.
type Outcome struct {
	Success      bool            `json:"success"`
	Window       platform.Window `json:"window"`
	Requested    platform.Size   `json:"requested"`
	Actual       platform.Size   `json:"actual"`
	StateChanged bool            `json:"state_changed"`
	Kind         ErrorKind       `json:"kind,omitempty"`
	Message      string          `json:"message,omitempty"`
	Code         *uint32         `json:"code,omitempty"`
}

// DisplayMessage renders the outcome for status lines and notifications.
func (o Outcome) DisplayMessage() string {
	if o.Success {
		return fmt.Sprintf("Successfully resized %s to %s", o.Window.DisplayText(), o.Requested)
	}
	if o.Message == "" {
		return "Resize operation failed"
	}
	return o.Message
}

// Err returns nil for a successful outcome and an *Error otherwise.
func (o Outcome) Err() error {
	if o.Success {
		return nil
	}
	return &Error{Kind: o.Kind, Message: o.DisplayMessage(), Code: o.Code}
}

// Error is a failed Outcome as an error value.
type Error struct {
	Kind    ErrorKind
	Message string
	Code    *uint32
}

func (e *Error) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("%s: %s (code %d)", e.Kind, e.Message, *e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (o Outcome) failed(kind ErrorKind, message string, code *uint32) Outcome {
	o.Success = false
	o.Kind = kind
	o.Message = message
	o.Code = code
	return o
}

// DescribeCode maps a platform error code to a readable explanation.
func DescribeCode(code uint32) string {
	switch code {
	case 0:
		return "Operation completed successfully"
	case 5:
		return "Access denied - the window may be owned by a privileged process"
	case 6:
		return "Invalid handle - the window may have been closed"
	case 87:
		return "Invalid parameter - the specified coordinates may be out of range"
	case 1400:
		return "Invalid window handle - the window no longer exists"
	case 1401:
		return "Invalid menu handle"
	case 1402:
		return "Invalid cursor handle"
	case 1403:
		return "Invalid accelerator table handle"
	case 1404:
		return "Invalid hook handle"
	case 1405:
		return "Invalid DWP (Deferred Window Position) handle"
	case 1406:
		return "Cannot create top-level child window"
	case 1407:
		return "Cannot find window class"
	case 1408:
		return "Invalid window - cannot find window"
	case 1409:
		return "Invalid index"
	default:
		return fmt.Sprintf("Windows API error %d", code)
	}
}

func codeOf(err error) *uint32 {
	if code, ok := platform.ErrorCode(err); ok {
		return &code
	}
	return nil
}
