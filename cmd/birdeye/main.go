package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/marcus/birdeye/internal/app"
	"github.com/marcus/birdeye/internal/config"
	"github.com/marcus/birdeye/internal/gateway"
	"github.com/marcus/birdeye/internal/keymap"
	"github.com/marcus/birdeye/internal/nav"
	"github.com/marcus/birdeye/internal/state"
	"github.com/marcus/birdeye/internal/styles"
	"github.com/marcus/birdeye/internal/tree"
	"github.com/marcus/birdeye/internal/watcher"
)

// Version is set at build time via ldflags
var Version = ""

// defaultDebugLog is written in the working directory when --debug is
// given without --log-file.
const defaultDebugLog = "birdeye.log"

var (
	configPath   = flag.String("config", "", "path to config file")
	noGitignore  = flag.Bool("no-gitignore", false, "show files ignored by git")
	noHidden     = flag.Bool("no-hidden", false, "hide dot files")
	watchFlag    = flag.Bool("watch", false, "refresh when open directories change")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
	logFile      = flag.String("log-file", "", "write logs to this file")
	initConfig   = flag.Bool("init-config", false, "write the default config file if none exists and exit")
	versionFlag  = flag.Bool("version", false, "print version and exit")
	shortVersion = flag.Bool("v", false, "print version and exit (short)")
)

func main() {
	flag.Parse()

	// Handle version flag
	if *versionFlag || *shortVersion {
		fmt.Printf("birdeye version %s\n", effectiveVersion(Version))
		os.Exit(0)
	}

	if *initConfig {
		path, created, err := writeDefaultConfig(config.ConfigPath())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		if created {
			fmt.Printf("Wrote %s\n", path)
		} else {
			fmt.Printf("%s already exists\n", path)
		}
		os.Exit(0)
	}

	// Setup logging. The TUI owns the terminal, so logs go to a file.
	logger, closeLog, err := openLogger(*logFile, *debugFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	if err := styles.ApplyTheme(cfg.UI.Theme, cfg.UI.Colors); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid theme: %v\n", err)
		os.Exit(1)
	}

	root, err := resolveRoot(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	// Load persistent state (ignore errors - state is optional)
	if cfg.Tree.RestoreSession {
		if err := state.Init(); err != nil {
			logger.Warn("state unavailable", "err", err)
		}
	}

	// Create keymap registry
	km := keymap.NewRegistry()
	keymap.RegisterDefaults(km)

	// Apply user keymap overrides
	if err := km.ApplyOverrides(cfg.Keymap.Overrides); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid keymap: %v\n", err)
		os.Exit(1)
	}

	gw := buildGateway(cfg, root, logger)
	t := tree.New(root, gw, tree.WithLogger(logger), tree.WithSortMode(cfg.SortMode()))

	var w *watcher.Watcher
	if cfg.Watch.Enabled {
		w, err = watcher.New(gw, watcher.WithDebounce(cfg.Watch.Debounce), watcher.WithLogger(logger))
		if err != nil {
			logger.Warn("file watching disabled", "err", err)
			w = nil
		} else {
			defer w.Close()
		}
	}

	// Create and run application
	model := app.New(nav.New(t), app.Options{
		Config:  cfg,
		Keymap:  km,
		Watcher: w,
		Logger:  logger,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
	if m, ok := final.(app.Model); ok && m.Selected() != "" {
		fmt.Println(m.Selected())
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(config.ExpandPath(path))
	}
	return config.Load()
}

// applyFlags lets command line flags override the config file.
func applyFlags(cfg *config.Config) {
	if *noGitignore {
		cfg.Tree.UseGitignore = false
	}
	if *noHidden {
		cfg.Tree.ShowHidden = false
	}
	if *watchFlag {
		cfg.Watch.Enabled = true
	}
}

// resolveRoot returns the absolute navigation root: the first argument,
// or the working directory.
func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = config.ExpandPath(args[0])
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("root %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("root %s is not a directory", abs)
	}
	return abs, nil
}

// buildGateway stacks the configured listing filters over the OS gateway.
func buildGateway(cfg *config.Config, root string, logger *slog.Logger) gateway.Gateway {
	var gw gateway.Gateway = gateway.NewOS()
	if cfg.Tree.HideSystemFiles {
		gw = gateway.WithoutSystemFiles(gw)
	}
	if !cfg.Tree.ShowHidden {
		gw = gateway.WithoutHidden(gw)
	}
	if cfg.Tree.UseGitignore {
		gw = gateway.WithGitIgnore(gw, root, logger)
	}
	return gw
}

// openLogger returns a text logger writing to path, or to birdeye.log when
// only debug is set. Without either, logs are discarded.
func openLogger(path string, debugOn bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if debugOn {
		level = slog.LevelDebug
	}
	if path == "" && debugOn {
		path = defaultDebugLog
	}

	var out io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, closeFn, nil
}

// writeDefaultConfig saves the default config at path unless a file is
// already there.
func writeDefaultConfig(path string) (string, bool, error) {
	if path == "" {
		return "", false, fmt.Errorf("no home directory for config")
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := config.SaveTo(config.Default(), path); err != nil {
		return path, false, err
	}
	return path, true, nil
}

// effectiveVersion returns the version string, with fallback to build info.
func effectiveVersion(v string) string {
	if v != "" {
		return v
	}

	// Try to get version from Go build info
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	// Check module version
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	// Fall back to VCS info
	var revision string
	var dirty bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	if revision != "" {
		ver := "devel+" + shortRevision(revision)
		if dirty {
			ver += "+dirty"
		}
		return ver
	}

	return "devel"
}

// shortRevision returns the first 12 chars of a revision.
func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

func init() {
	// Customize usage output
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: birdeye [options] [root]\n\n")
		fmt.Fprintf(os.Stderr, "Browse a directory tree and print the file you pick.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
}
