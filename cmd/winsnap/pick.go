package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/winsnap/internal/tui"
)

func runPick(args []string) int {
	fs := flag.NewFlagSet("pick", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winsnap/config.yaml)")
	center := fs.Bool("center", false, "Keep this terminal centered: on screen at start, then over the chosen window")
	centerAfter := fs.Bool("center-after", false, "Center the resized window on its monitor")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap pick [--center] [--center-after] [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a window, then a preset, and resize it.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓  Navigate")
		fmt.Fprintln(os.Stderr, "  /         Filter windows")
		fmt.Fprintln(os.Stderr, "  Enter     Select")
		fmt.Fprintln(os.Stderr, "  Esc       Back to the window list")
		fmt.Fprintln(os.Stderr, "  c         Toggle centering after resize")
		fmt.Fprintln(os.Stderr, "  r         Refresh the window list")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C Quit")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	// Log output would draw over the alternate screen.
	s, err := openLocal(*path, io.Discard)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer s.Close()

	opts := tui.Options{
		Center:            *center,
		CenterAfterResize: *centerAfter,
	}
	// The terminal hosting the picker is the foreground window at launch.
	if h, err := s.native.ForegroundWindow(); err == nil {
		opts.Utility = h
	} else {
		s.logger.Debug("no foreground window for the picker", "err", err)
	}

	out, err := tui.Run(s.snapper, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, tui.ErrNotInteractive) {
			return 2
		}
		return 1
	}
	if out == nil {
		fmt.Println("nothing resized")
		return 0
	}
	return reportOutcome(out, false)
}
