package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/runtimepath"
	"github.com/1broseidon/winsnap/internal/snap"
)

type ServerOptions struct {
	// Reload re-reads configuration and presets.
	Reload func() error
	// HotkeyActive reports whether the global hotkey is registered.
	HotkeyActive func() bool
	Logger       *slog.Logger
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	snapper      *snap.Snapper
	reload       func() error
	hotkeyActive func() bool
	logger       *slog.Logger
	startTime    time.Time

	// opMu serializes commands that move or resize windows.
	opMu sync.Mutex

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(snapper *snap.Snapper, opts ServerOptions) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		socketPath:   socketPath,
		snapper:      snapper,
		reload:       opts.Reload,
		hotkeyActive: opts.HotkeyActive,
		logger:       logger,
		startTime:    time.Now(),
	}, nil
}

func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.logger.Info("IPC server listening", "socket", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Serve runs the server until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.shutdownMu.Lock()
	s.shuttingDown = false
	s.shutdownMu.Unlock()

	if err := s.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return ctx.Err()
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Warn("IPC accept error", "err", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.logger.Warn("IPC read error", "err", err)
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	resp := s.handleCommand(req)

	respData, err := resp.Marshal()
	if err != nil {
		s.logger.Error("failed to marshal response", "err", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		s.logger.Warn("failed to send response", "err", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.logger.Debug("IPC request", "command", req.Command)
	switch req.Command {
	case CommandReload:
		return s.handleReload()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandListWindows:
		return ok(WindowsData{Windows: s.snapper.Windows()})
	case CommandActiveWindow:
		return s.handleActiveWindow()
	case CommandResize:
		return s.handleResize(req)
	case CommandCenter:
		return s.handleCenter(req)
	case CommandActivate:
		return s.handleActivate(req)
	case CommandCycle:
		return s.handleCycle()
	case CommandListPresets:
		return ok(PresetsData{Presets: s.snapper.Presets()})
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func ok(data any) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleReload() *Response {
	s.logger.Info("IPC: received RELOAD")
	if s.reload == nil {
		return NewErrorResponse("reload is not supported")
	}
	if err := s.reload(); err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to reload config: %v", err))
	}
	return ok(nil)
}

func (s *Server) handleGetStatus() *Response {
	cfg := s.snapper.Config()
	status := StatusData{
		UptimeSeconds:  int64(time.Since(s.startTime).Seconds()),
		DaemonRunning:  true,
		PresetCount:    len(s.snapper.Presets()),
		TrackedWindows: s.snapper.Tracked(),
	}
	if combo, err := cfg.HotkeyCombo(); err == nil {
		status.Hotkey = combo.String()
	}
	if s.hotkeyActive != nil {
		status.HotkeyActive = s.hotkeyActive()
	}
	if store := s.snapper.PresetStore(); store != nil {
		status.PresetsFile = store.Path()
	}
	return ok(status)
}

func (s *Server) handleActiveWindow() *Response {
	win, found := s.snapper.Active()
	if !found {
		return NewErrorResponse(snap.ErrNoActiveWindow.Error())
	}
	return ok(win)
}

func (s *Server) handleResize(req *Request) *Response {
	var payload ResizePayload
	if err := decodePayload(req.Payload, &payload); err != nil {
		return NewErrorResponse(err.Error())
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if payload.Preset != "" {
		out, err := s.snapper.ApplyPreset(payload.Handle, payload.Preset, payload.Center)
		if err != nil {
			return NewErrorResponse(err.Error())
		}
		return ok(out)
	}
	size := platform.Size{Width: payload.Width, Height: payload.Height}
	out, err := s.snapper.Resize(payload.Handle, size, payload.Center)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(out)
}

func (s *Server) handleCenter(req *Request) *Response {
	var payload HandlePayload
	if err := decodePayload(req.Payload, &payload); err != nil {
		return NewErrorResponse(err.Error())
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	pt, err := s.snapper.Center(payload.Handle)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(CenterData{Handle: payload.Handle, X: pt.X, Y: pt.Y})
}

func (s *Server) handleActivate(req *Request) *Response {
	var payload HandlePayload
	if err := decodePayload(req.Payload, &payload); err != nil {
		return NewErrorResponse(err.Error())
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.snapper.Activate(payload.Handle); err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) handleCycle() *Response {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	out, err := s.snapper.Cycle()
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(out)
}

// sendError sends an error response
func (s *Server) sendError(conn net.Conn, errMsg string) {
	resp := NewErrorResponse(errMsg)
	data, _ := resp.Marshal()
	data = append(data, '\n')
	conn.Write(data)
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
