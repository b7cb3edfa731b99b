package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandListWindows  CommandType = "LIST_WINDOWS"
	CommandActiveWindow CommandType = "ACTIVE_WINDOW"
	CommandResize       CommandType = "RESIZE"
	CommandCenter       CommandType = "CENTER"
	CommandActivate     CommandType = "ACTIVATE"
	CommandCycle        CommandType = "CYCLE"
	CommandListPresets  CommandType = "LIST_PRESETS"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	UptimeSeconds  int64  `json:"uptime_seconds"`
	DaemonRunning  bool   `json:"daemon_running"`
	Hotkey         string `json:"hotkey"`
	HotkeyActive   bool   `json:"hotkey_active"`
	PresetCount    int    `json:"preset_count"`
	TrackedWindows int    `json:"tracked_windows"`
	PresetsFile    string `json:"presets_file,omitempty"`
}

type WindowsData struct {
	Windows []platform.Window `json:"windows"`
}

type PresetsData struct {
	Presets []presets.Preset `json:"presets"`
}

// HandlePayload addresses one window. A zero handle means the active window.
type HandlePayload struct {
	Handle platform.Handle `json:"handle,omitempty"`
}

// ResizePayload is the payload for RESIZE. Preset wins over Width/Height.
type ResizePayload struct {
	Handle platform.Handle `json:"handle,omitempty"`
	Preset string          `json:"preset,omitempty"`
	Width  int             `json:"width,omitempty"`
	Height int             `json:"height,omitempty"`
	Center bool            `json:"center,omitempty"`
}

type CenterData struct {
	Handle platform.Handle `json:"handle"`
	X      int             `json:"x"`
	Y      int             `json:"y"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func decodePayload(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
