package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
	"github.com/1broseidon/winsnap/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// call sends command with an optional payload and decodes the response data
// into out when out is non-nil.
func (c *Client) call(command CommandType, payload any, out any) error {
	req := &Request{Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = raw
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) ListWindows() ([]platform.Window, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

func (c *Client) ActiveWindow() (*platform.Window, error) {
	var win platform.Window
	if err := c.call(CommandActiveWindow, nil, &win); err != nil {
		return nil, err
	}
	return &win, nil
}

// Resize asks the daemon to resize a window. A failed resize is still a
// successful round trip: inspect Outcome.Success.
func (c *Client) Resize(payload ResizePayload) (*resize.Outcome, error) {
	var out resize.Outcome
	if err := c.call(CommandResize, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Center(h platform.Handle) (*CenterData, error) {
	var data CenterData
	if err := c.call(CommandCenter, HandlePayload{Handle: h}, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) Activate(h platform.Handle) error {
	return c.call(CommandActivate, HandlePayload{Handle: h}, nil)
}

// Cycle resizes the active window to its next preset, like the hotkey.
func (c *Client) Cycle() (*resize.Outcome, error) {
	var out resize.Outcome
	if err := c.call(CommandCycle, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListPresets() ([]presets.Preset, error) {
	var data PresetsData
	if err := c.call(CommandListPresets, nil, &data); err != nil {
		return nil, err
	}
	return data.Presets, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
