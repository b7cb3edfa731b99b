package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/winsnap/internal/palette"
	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/snap"
)

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winsnap/config.yaml)")
	handle := fs.String("handle", "", "Window handle (decimal or 0x-hex; default: active window)")
	choose := fs.Bool("choose", false, "Pick the window from a list first")
	backend := fs.String("backend", "", "Launcher: auto, "+strings.Join(palette.Backends, ", ")+" (default: palette_backend)")
	center := fs.Bool("center", false, "Center the resized window on its monitor")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap menu [--handle H | --choose] [--backend NAME] [--center] [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the presets for a window in rofi, fuzzel, wofi or dmenu.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	var target platform.Handle
	if strings.TrimSpace(*handle) != "" {
		if *choose {
			fmt.Fprintln(os.Stderr, "--handle and --choose are mutually exclusive")
			return 2
		}
		h, err := platform.ParseHandle(*handle)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		target = h
	}

	s, err := openLocal(*path, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer s.Close()

	cfg := s.snapper.Config()
	name := cfg.PaletteBackend
	if *backend != "" {
		name = *backend
	}
	b, err := palette.NewBackend(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	menu := palette.NewMenu(b, s.snapper, *center || cfg.CenterOnResize)
	var res palette.Result
	if *choose {
		res, err = menu.Choose()
	} else {
		res, err = menu.ForWindow(target)
	}
	switch {
	case errors.Is(err, palette.ErrCancelled):
		return 0
	case errors.Is(err, snap.ErrNoActiveWindow):
		fmt.Fprintln(os.Stderr, err)
		return 1
	case res.Outcome != nil:
		return reportOutcome(res.Outcome, false)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(res.Message())
	return 0
}
