package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/resize"
)

func parseHandle(raw string) (platform.Handle, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	h, err := platform.ParseHandle(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid handle %q: %w", raw, err)
	}
	return h, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	wins := s.snapper.Windows()
	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(wins))}
	for _, w := range wins {
		out.Windows = append(out.Windows, windowInfo(w))
	}
	return nil, out, nil
}

func (s *Server) handleActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ ActiveWindowInput) (*mcpsdk.CallToolResult, ActiveWindowOutput, error) {
	win, ok := s.snapper.Active()
	if !ok {
		return nil, ActiveWindowOutput{}, fmt.Errorf("the foreground window is not a resizable application window")
	}
	return nil, ActiveWindowOutput{Window: windowInfo(win)}, nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, ResizeWindowOutput, error) {
	h, err := parseHandle(args.Handle)
	if err != nil {
		return nil, ResizeWindowOutput{}, err
	}

	var out resize.Outcome
	if args.Preset != "" {
		out, err = s.snapper.ApplyPreset(h, args.Preset, args.Center)
	} else {
		out, err = s.snapper.Resize(h, platform.Size{Width: args.Width, Height: args.Height}, args.Center)
	}
	if err != nil {
		return nil, ResizeWindowOutput{}, err
	}

	s.logger.Info("mcp resize", "handle", out.Window.Handle, "success", out.Success, "kind", out.Kind)
	result := ResizeWindowOutput{
		Success:      out.Success,
		Message:      out.DisplayMessage(),
		Kind:         out.Kind,
		Window:       windowInfo(out.Window),
		Requested:    out.Requested.String(),
		StateChanged: out.StateChanged,
	}
	if out.Success {
		result.Actual = out.Actual.String()
		return nil, result, nil
	}
	return nil, result, out.Err()
}

func (s *Server) handleCenterWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args HandleInput) (*mcpsdk.CallToolResult, CenterWindowOutput, error) {
	h, err := parseHandle(args.Handle)
	if err != nil {
		return nil, CenterWindowOutput{}, err
	}
	pt, err := s.snapper.Center(h)
	if err != nil {
		return nil, CenterWindowOutput{}, err
	}
	if h == 0 {
		if win, ok := s.snapper.Active(); ok {
			h = win.Handle
		}
	}
	return nil, CenterWindowOutput{Handle: h.String(), X: pt.X, Y: pt.Y}, nil
}

func (s *Server) handleActivateWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ActivateWindowInput) (*mcpsdk.CallToolResult, ActivateWindowOutput, error) {
	h, err := parseHandle(args.Handle)
	if err != nil {
		return nil, ActivateWindowOutput{}, err
	}
	if h == 0 {
		return nil, ActivateWindowOutput{}, fmt.Errorf("handle is required")
	}
	if err := s.snapper.Activate(h); err != nil {
		return nil, ActivateWindowOutput{Activated: false}, err
	}
	return nil, ActivateWindowOutput{Activated: true}, nil
}

func (s *Server) handleListPresets(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListPresetsInput) (*mcpsdk.CallToolResult, ListPresetsOutput, error) {
	return nil, ListPresetsOutput{Presets: s.snapper.Presets()}, nil
}
