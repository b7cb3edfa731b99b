package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	console "github.com/phsym/console-slog"

	"github.com/1broseidon/winsnap/internal/config"
	"github.com/1broseidon/winsnap/internal/platform"
	"github.com/1broseidon/winsnap/internal/presets"
	"github.com/1broseidon/winsnap/internal/snap"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "list":
		os.Exit(runList(os.Args[2:]))
	case "active":
		os.Exit(runActive(os.Args[2:]))
	case "resize":
		os.Exit(runResize(os.Args[2:]))
	case "center":
		os.Exit(runCenter(os.Args[2:]))
	case "activate":
		os.Exit(runActivate(os.Args[2:]))
	case "cycle":
		os.Exit(runCycle(os.Args[2:]))
	case "presets":
		os.Exit(runPresets(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "pick":
		os.Exit(runPick(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winsnap <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the winsnap daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload daemon configuration and presets")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  list                List resizable windows")
	fmt.Fprintln(w, "  active              Show the window the hotkey would act on")
	fmt.Fprintln(w, "  resize              Resize a window to a preset or WxH")
	fmt.Fprintln(w, "  center              Center a window on its monitor")
	fmt.Fprintln(w, "  activate            Bring a window to the foreground")
	fmt.Fprintln(w, "  cycle               Resize the active window to the next preset")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  presets list        List size presets")
	fmt.Fprintln(w, "  presets add         Add a size preset")
	fmt.Fprintln(w, "  presets remove      Remove a size preset")
	fmt.Fprintln(w, "  presets reset       Restore the default presets")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config init         Write a default config file")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  pick                Pick a window and preset interactively")
	fmt.Fprintln(w, "  menu                Pick a preset in rofi/fuzzel/wofi/dmenu")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winsnap <command> --help' for command-specific options.")
}

// newLogger builds the process logger writing to w. WINSNAP_LOG_LEVEL
// overrides the configured level.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		level = cfg.SlogLevel()
	}
	if v := strings.TrimSpace(os.Getenv("WINSNAP_LOG_LEVEL")); v != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(v)); err == nil {
			level = l
		}
	}
	logger := slog.New(console.NewHandler(w, &console.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// openNative connects to the window system. WINSNAP_BACKEND=fake selects an
// empty in-memory desktop for dry runs.
func openNative() (platform.Native, error) {
	if strings.EqualFold(os.Getenv("WINSNAP_BACKEND"), "fake") {
		return platform.NewFakeNative(), nil
	}
	return platform.NewNative()
}

func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}
	return config.LoadFromPath(path)
}

// localSession is a snapper running in this process, used when no daemon
// is reachable and by the picker.
type localSession struct {
	native  platform.Native
	snapper *snap.Snapper
	logger  *slog.Logger
}

func openLocal(path string, logTo io.Writer) (*localSession, error) {
	res, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	logger := newLogger(res.Config, logTo)
	presetsPath, err := res.Config.ResolvedPresetsFile()
	if err != nil {
		return nil, err
	}
	store, err := presets.Open(presetsPath, logger)
	if err != nil {
		return nil, err
	}
	native, err := openNative()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to display: %w", err)
	}
	return &localSession{
		native: native,
		snapper: snap.New(native, snap.Options{
			Config:  res.Config,
			Presets: store,
			Logger:  logger,
		}),
		logger: logger,
	}, nil
}

func (s *localSession) Close() {
	if err := s.native.Close(); err != nil {
		s.logger.Debug("close native", "err", err)
	}
}

// parseFlags parses fs and maps the outcome onto an exit code; ok is false
// when the caller should return code.
func parseFlags(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}
