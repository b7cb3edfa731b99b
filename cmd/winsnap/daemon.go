package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/winsnap/internal/config"
	"github.com/1broseidon/winsnap/internal/daemon"
	"github.com/1broseidon/winsnap/internal/ipc"
)

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winsnap/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the hotkey listener and IPC server in the foreground.")
		fmt.Fprintln(os.Stderr, "SIGHUP or 'winsnap reload' re-reads the configuration.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	var cfg *config.Config
	if res, err := loadConfig(*path); err == nil {
		cfg = res.Config
	}
	logger := newLogger(cfg, os.Stderr)

	if err := ipc.NewClient().Ping(); err == nil {
		logger.Error("another daemon is already running")
		return 1
	}

	native, err := openNative()
	if err != nil {
		logger.Error("failed to connect to display", "err", err)
		return 1
	}
	defer native.Close()

	d, err := daemon.New(native, daemon.Options{
		ConfigPath: *path,
		Logger:     logger,
	})
	if err != nil {
		logger.Error("failed to start daemon", "err", err)
		return 1
	}

	logger.Info("winsnap daemon started")
	if err := d.Run(context.Background()); err != nil {
		logger.Error("daemon stopped", "err", err)
		return 1
	}
	logger.Info("winsnap daemon stopped")
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running:  %v\n", status.DaemonRunning)
	fmt.Printf("hotkey:          %s\n", status.Hotkey)
	fmt.Printf("hotkey_active:   %v\n", status.HotkeyActive)
	fmt.Printf("preset_count:    %d\n", status.PresetCount)
	fmt.Printf("tracked_windows: %d\n", status.TrackedWindows)
	if status.PresetsFile != "" {
		fmt.Printf("presets_file:    %s\n", status.PresetsFile)
	}
	fmt.Printf("uptime_seconds:  %d\n", status.UptimeSeconds)
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the running daemon to re-read its configuration and presets.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("reloaded")
	return 0
}
