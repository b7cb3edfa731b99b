package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/1broseidon/winsnap/internal/ipc"
	"github.com/1broseidon/winsnap/internal/presets"
)

func printPresetsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winsnap presets list [--json]")
	fmt.Fprintln(w, "  winsnap presets add <name> <WIDTHxHEIGHT>")
	fmt.Fprintln(w, "  winsnap presets remove <name>")
	fmt.Fprintln(w, "  winsnap presets reset")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "All subcommands accept --path PATH to select the config file.")
}

func runPresets(args []string) int {
	if len(args) == 0 {
		printPresetsUsage(os.Stderr)
		return 2
	}
	switch args[0] {
	case "list":
		return runPresetsList(args[1:])
	case "add":
		return runPresetsAdd(args[1:])
	case "remove", "rm":
		return runPresetsRemove(args[1:])
	case "reset":
		return runPresetsReset(args[1:])
	case "help", "-h", "--help":
		printPresetsUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown presets command: %s\n\n", args[0])
		printPresetsUsage(os.Stderr)
		return 2
	}
}

// openPresets opens the preset file named by the config at path.
func openPresets(path string) (*presets.Store, error) {
	res, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	file, err := res.Config.ResolvedPresetsFile()
	if err != nil {
		return nil, err
	}
	return presets.Open(file, newLogger(res.Config, os.Stderr))
}

// notifyDaemon asks a running daemon to pick up preset changes. A missing
// daemon is not an error.
func notifyDaemon() {
	client := ipc.NewClient()
	if err := client.Ping(); err != nil {
		return
	}
	if err := client.Reload(); err != nil {
		slog.Warn("daemon reload failed", "err", err)
	}
}

func runPresetsList(args []string) int {
	fs := flag.NewFlagSet("presets list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winsnap/config.yaml)")
	jsonOut := fs.Bool("json", false, "Print JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	store, err := openPresets(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	list := store.List()
	if *jsonOut {
		return printJSON(list)
	}
	for i, p := range list {
		fmt.Printf("%d. %s\n", i+1, p.Label())
	}
	return 0
}

func runPresetsAdd(args []string) int {
	fs := flag.NewFlagSet("presets add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winsnap/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "presets add requires <name> <WIDTHxHEIGHT>")
		return 2
	}
	size, err := parseSize(fs.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	store, err := openPresets(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	p := presets.Preset{Name: strings.TrimSpace(fs.Arg(0)), Width: size.Width, Height: size.Height}
	if err := store.Add(p); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	notifyDaemon()
	fmt.Printf("added %s\n", p.Label())
	return 0
}

func runPresetsRemove(args []string) int {
	fs := flag.NewFlagSet("presets remove", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winsnap/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "presets remove requires <name>")
		return 2
	}

	store, err := openPresets(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := store.Remove(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	notifyDaemon()
	fmt.Printf("removed %s\n", fs.Arg(0))
	return 0
}

func runPresetsReset(args []string) int {
	fs := flag.NewFlagSet("presets reset", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/winsnap/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	store, err := openPresets(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := store.Reset(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	notifyDaemon()
	fmt.Printf("restored %d default presets\n", len(store.List()))
	return 0
}
