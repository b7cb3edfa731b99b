// Package mcp exposes window snapping as Model Context Protocol tools over
// stdio.
package mcp

import (
	"context"
	"log/slog"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
)

const (
	ServerName    = "winsnap"
	ServerVersion = "0.1.0"
)

// Snapper is the window control surface the tools act on. *snap.Snapper
// implements it.
type Snapper interface {
	Windows() []platform.Window
	Active() (platform.Window, bool)
	Resize(h platform.Handle, size platform.Size, center bool) (resize.Outcome, error)
	ApplyPreset(h platform.Handle, name string, center bool) (resize.Outcome, error)
	Center(h platform.Handle) (platform.Point, error)
	Activate(h platform.Handle) error
	Presets() []presets.Preset
}

// Server is the MCP server for winsnap.
type Server struct {
	mcpServer *mcpsdk.Server
	snapper   Snapper
	logger    *slog.Logger
}

// NewServer creates a new MCP server backed by snapper.
func NewServer(snapper Snapper, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		snapper: snapper,
		logger:  logger,
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the resizable top-level windows on the desktop, sorted by title. Shell surfaces, tool windows, tiny windows and windows on other virtual desktops are excluded.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "active_window",
		Description: "Return the foreground window if it is a resizable application window.",
	}, s.handleActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window to a preset or to an explicit width and height, keeping its top-left corner. Minimized and maximized windows are restored first. Optionally centers the window on its monitor afterwards.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "center_window",
		Description: "Center a window in the work area of the monitor it is on, without resizing it.",
	}, s.handleCenterWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "activate_window",
		Description: "Bring a window to the foreground, restoring it first if it is minimized.",
	}, s.handleActivateWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_presets",
		Description: "List the configured size presets (name, width, height).",
	}, s.handleListPresets)
}
