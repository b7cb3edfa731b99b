package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/1broseidon/winsnap/internal/ipc"
	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/resize"
)

// windowOps is what the window commands need, served either by the daemon
// over IPC or by a snapper in this process.
type windowOps interface {
	Windows() ([]platform.Window, error)
	Active() (*platform.Window, error)
	Resize(p ipc.ResizePayload) (*resize.Outcome, error)
	Center(h platform.Handle) (platform.Point, error)
	Activate(h platform.Handle) error
	Cycle() (*resize.Outcome, error)
	Presets() ([]presets.Preset, error)
	Close()
}

type remoteOps struct {
	client *ipc.Client
}

func (r remoteOps) Windows() ([]platform.Window, error) { return r.client.ListWindows() }
func (r remoteOps) Active() (*platform.Window, error) { return r.client.ActiveWindow() }
func (r remoteOps) Activate(h platform.Handle) error { return r.client.Activate(h) }
func (r remoteOps) Cycle() (*resize.Outcome, error) { return r.client.Cycle() }
func (r remoteOps) Presets() ([]presets.Preset, error) { return r.client.ListPresets() }
func (r remoteOps) Close() {}
func (r remoteOps) Resize(p ipc.ResizePayload) (*resize.Outcome, error) {
	return r.client.Resize(p)
}

func (r remoteOps) Center(h platform.Handle) (platform.Point, error) {
	data, err := r.client.Center(h)
	if err != nil {
		return platform.Point{}, err
	}
	return platform.Point{X: data.X, Y: data.Y}, nil
}

type localOps struct {
	*localSession
}

func (l localOps) Windows() ([]platform.Window, error) {
	return l.snapper.Windows(), nil
}

func (l localOps) Active() (*platform.Window, error) {
	win, ok := l.snapper.Active()
	if !ok {
		return nil, nil
	}
	return &win, nil
}

func (l localOps) Resize(p ipc.ResizePayload) (*resize.Outcome, error) {
	var (
		out resize.Outcome
		err error
	)
	if p.Preset != "" {
		out, err = l.snapper.ApplyPreset(p.Handle, p.Preset, p.Center)
	} else {
		out, err = l.snapper.Resize(p.Handle, platform.Size{Width: p.Width, Height: p.Height}, p.Center)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (l localOps) Center(h platform.Handle) (platform.Point, error) { return l.snapper.Center(h) }
func (l localOps) Activate(h platform.Handle) error { return l.snapper.Activate(h) }
func (l localOps) Presets() ([]presets.Preset, error) { return l.snapper.Presets(), nil }

func (l localOps) Cycle() (*resize.Outcome, error) {
	out, err := l.snapper.Cycle()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// connect prefers the running daemon so cycle positions are shared with the
// hotkey; without one the work happens in-process.
func connect(path string, local bool) (windowOps, error) {
	if !local {
		client := ipc.NewClient()
		if err := client.Ping(); err == nil {
			return remoteOps{client: client}, nil
		}
	}
	s, err := openLocal(path, os.Stderr)
	if err != nil {
		return nil, err
	}
	return localOps{s}, nil
}

// windowFlags registers the flags shared by the window commands.
type windowFlags struct {
	path   *string
	local  *bool
	handle *string
}

func addWindowFlags(fs *flag.FlagSet, withHandle bool) windowFlags {
	wf := windowFlags{
		path:  fs.String("path", "", "Config file path when running without the daemon"),
		local: fs.Bool("local", false, "Run in-process even when the daemon is running"),
	}
	if withHandle {
		wf.handle = fs.String("handle", "", "Window handle (decimal or 0x-hex; default: active window)")
	}
	return wf
}

func (wf windowFlags) target() (platform.Handle, error) {
	if wf.handle == nil || strings.TrimSpace(*wf.handle) == "" {
		return 0, nil
	}
	return platform.ParseHandle(*wf.handle)
}

func runList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	wf := addWindowFlags(fs, false)
	jsonOut := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap list [--json] [--local] [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List resizable windows, sorted by title.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	ops, err := connect(*wf.path, *wf.local)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer ops.Close()

	windows, err := ops.Windows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(windows)
	}
	if len(windows) == 0 {
		fmt.Println("no resizable windows")
		return 0
	}
	for _, w := range windows {
		fmt.Println(formatWindow(w))
	}
	return 0
}

func runActive(args []string) int {
	fs := flag.NewFlagSet("active", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	wf := addWindowFlags(fs, false)
	jsonOut := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap active [--json] [--local] [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the window the hotkey would resize.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	ops, err := connect(*wf.path, *wf.local)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer ops.Close()

	win, err := ops.Active()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if win == nil {
		fmt.Fprintln(os.Stderr, "no active window")
		return 1
	}
	if *jsonOut {
		return printJSON(win)
	}
	fmt.Println(formatWindow(*win))
	return 0
}

func runResize(args []string) int {
	fs := flag.NewFlagSet("resize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	wf := addWindowFlags(fs, true)
	preset := fs.String("preset", "", "Preset name")
	center := fs.Bool("center", false, "Center the window on its monitor afterwards")
	jsonOut := fs.Bool("json", false, "Print the outcome as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  winsnap resize [--handle H] [--center] --preset NAME")
		fmt.Fprintln(os.Stderr, "  winsnap resize [--handle H] [--center] WIDTHxHEIGHT")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	payload := ipc.ResizePayload{Preset: strings.TrimSpace(*preset), Center: *center}
	switch {
	case payload.Preset != "" && fs.NArg() == 0:
	case payload.Preset == "" && fs.NArg() == 1:
		size, err := parseSize(fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		payload.Width, payload.Height = size.Width, size.Height
	default:
		fmt.Fprintln(os.Stderr, "resize requires exactly one of --preset or WIDTHxHEIGHT")
		fs.Usage()
		return 2
	}
	h, err := wf.target()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	payload.Handle = h

	ops, err := connect(*wf.path, *wf.local)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer ops.Close()

	out, err := ops.Resize(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportOutcome(out, *jsonOut)
}

func runCenter(args []string) int {
	fs := flag.NewFlagSet("center", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	wf := addWindowFlags(fs, true)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap center [--handle H]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Center a window in the work area of its monitor.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	h, err := wf.target()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	ops, err := connect(*wf.path, *wf.local)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer ops.Close()

	pt, err := ops.Center(h)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("moved to %d,%d\n", pt.X, pt.Y)
	return 0
}

func runActivate(args []string) int {
	fs := flag.NewFlagSet("activate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	wf := addWindowFlags(fs, true)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap activate --handle H")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Restore a window if minimized and bring it to the foreground.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	h, err := wf.target()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if h == 0 {
		fmt.Fprintln(os.Stderr, "activate requires --handle")
		return 2
	}

	ops, err := connect(*wf.path, *wf.local)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer ops.Close()

	if err := ops.Activate(h); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runCycle(args []string) int {
	fs := flag.NewFlagSet("cycle", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	wf := addWindowFlags(fs, false)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: winsnap cycle")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Resize the active window to its next preset, like the hotkey.")
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	ops, err := connect(*wf.path, *wf.local)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer ops.Close()

	out, err := ops.Cycle()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return reportOutcome(out, false)
}

func reportOutcome(out *resize.Outcome, jsonOut bool) int {
	if out == nil {
		fmt.Fprintln(os.Stderr, "no resize outcome")
		return 1
	}
	if jsonOut {
		if code := printJSON(out); code != 0 {
			return code
		}
		if !out.Success {
			return 1
		}
		return 0
	}
	if !out.Success {
		fmt.Fprintf(os.Stderr, "%s: %s\n", out.Kind, out.DisplayMessage())
		return 1
	}
	fmt.Println(out.DisplayMessage())
	if out.Actual != out.Requested {
		fmt.Printf("actual size: %s\n", out.Actual)
	}
	return 0
}

func formatWindow(w platform.Window) string {
	state := ""
	if w.Minimized {
		state = " [minimized]"
	}
	return fmt.Sprintf("%-10s %-40s %-20s %s%s", w.Handle, truncate(w.DisplayText(), 40), truncate(w.Class, 20), w.Bounds, state)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// parseSize accepts "WIDTHxHEIGHT" with an x, X or * separator.
func parseSize(s string) (platform.Size, error) {
	s = strings.TrimSpace(s)
	sep := strings.IndexAny(s, "xX*")
	if sep <= 0 || sep == len(s)-1 {
		return platform.Size{}, fmt.Errorf("invalid size %q (want WIDTHxHEIGHT)", s)
	}
	w, err := strconv.Atoi(s[:sep])
	if err != nil {
		return platform.Size{}, fmt.Errorf("invalid width in %q: %w", s, err)
	}
	h, err := strconv.Atoi(s[sep+1:])
	if err != nil {
		return platform.Size{}, fmt.Errorf("invalid height in %q: %w", s, err)
	}
	size := platform.Size{Width: w, Height: h}
	if !size.Valid() {
		return platform.Size{}, fmt.Errorf("invalid size %q (width and height must be greater than 0)", s)
	}
	return size, nil
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
