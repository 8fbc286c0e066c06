package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/atotto/clipboard"

	"github.com/runger/rcbar/internal/config"
	"github.com/runger/rcbar/internal/launcher"
	"github.com/runger/rcbar/internal/live"
	"github.com/runger/rcbar/internal/palette"
	"github.com/runger/rcbar/internal/rc"
	"github.com/runger/rcbar/internal/store"
	"github.com/runger/rcbar/internal/toolbar"
)

// appOptions selects how an app talks to the user.
type appOptions struct {
	// logToFile sends logs to the log file instead of stderr.
	logToFile bool

	// out receives launcher output and notifications.
	out io.Writer

	confirm func(prompt string) bool
	quit    func()
}

// app holds the wired components one command invocation uses.
type app struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger

	client   *rc.Client
	cache    *live.Cache
	store    *store.Store
	bus      EventBus.Bus
	poller   *live.Poller
	launcher *launcher.Launcher
	engine   *toolbar.Engine
	provider *palette.EngineProvider

	closers []io.Closer
}

func newApp(opts appOptions) (*app, error) {
	paths := config.DefaultPaths()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.out == nil {
		opts.out = os.Stdout
	}

	a := &app{cfg: cfg, paths: paths}
	logger, logCloser, err := newLogger(cfg, paths, opts.logToFile)
	if err != nil {
		return nil, err
	}
	a.logger = logger
	if logCloser != nil {
		a.closers = append(a.closers, logCloser)
	}

	a.client = rc.New(rc.Config{
		BaseURL:  cfg.Host.URL,
		User:     cfg.Host.User,
		Password: cfg.Host.Password,
		Timeout:  cfg.Host.Timeout(),
		Logger:   logger,
	})
	a.cache = live.NewCache()
	a.bus = EventBus.New()

	pollCfg := live.Config{
		RemotesInterval:   secondsOf(cfg.Poll.RemotesIntervalSec),
		ResourcesInterval: secondsOf(cfg.Poll.ResourcesIntervalSec),
		Bus:               a.bus,
		Logger:            logger,
	}
	// The snapshot store only speeds up start; run without it if it fails.
	if err := paths.EnsureDirectories(); err != nil {
		logger.Warn("creating data directories", "error", err)
	} else if st, err := store.Open(paths.DatabaseFile(), logger); err != nil {
		logger.Warn("opening remote snapshot store", "path", paths.DatabaseFile(), "error", err)
	} else {
		a.store = st
		a.closers = append(a.closers, st)
		pollCfg.Store = st
	}
	a.poller = live.NewPoller(a.client, a.cache, pollCfg)

	uiBase := cfg.Launcher.UIBaseURL
	if uiBase == "" {
		uiBase = cfg.Host.URL
	}
	a.launcher, err = launcher.New(launcher.Config{
		OpenCommand: cfg.Launcher.OpenCommand,
		UIBaseURL:   uiBase,
		Out:         opts.out,
		Logger:      logger,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid launcher.open_command: %w", err)
	}

	svc := &toolbar.Services{
		API:  a.client,
		Live: a.cache,
		Host: toolbar.Host{
			URL:      cfg.Host.URL,
			User:     cfg.Host.User,
			Password: cfg.Host.Password,
			Local:    cfg.Host.Local,
		},
		Clipboard: clipboard.WriteAll,
		Notify:    notifier(opts.out),
		Confirm:   opts.confirm,
		Reveal:    a.launcher.Reveal,
		OpenURL:   a.launcher.OpenURL,
		Quit:      opts.quit,
	}
	a.engine = toolbar.NewEngine(toolbar.EngineConfig{
		Catalog:   toolbar.DefaultCatalog(svc),
		Extractor: toolbar.Extractor{Separator: string(filepath.Separator)},
		Logger:    logger,
	})
	a.provider = palette.NewEngineProvider(a.engine, a.cache, a.launcher).WithLogger(logger)
	return a, nil
}

// refresh fills the cache once: first from the snapshot store, then from
// the control API. Failures are logged; the cache keeps what it has.
func (a *app) refresh(ctx context.Context) error {
	if err := a.poller.Warm(ctx); err != nil {
		a.logger.Warn("loading remote snapshot", "error", err)
	}
	remotesErr := a.poller.RefreshRemotes(ctx)
	if err := a.poller.RefreshResources(ctx); err != nil && remotesErr == nil {
		return err
	}
	return remotesErr
}

// Close releases the store and the log file.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Debug("close", "error", err)
		}
	}
	a.closers = nil
}

// newLogger builds the text logger for cfg. toFile selects the log file
// over stderr; the returned closer is nil for stderr.
func newLogger(cfg *config.Config, paths *config.Paths, toFile bool) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if !toFile {
		// stderr shares the terminal with command output; only debug widens it
		if level > slog.LevelDebug && level < slog.LevelWarn {
			opts.Level = slog.LevelWarn
		}
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil, nil
	}

	path := cfg.Log.File
	if path == "" {
		path = paths.LogFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, opts)), f, nil
}

func secondsOf(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func notifier(w io.Writer) func(title, body string) {
	var mu sync.Mutex
	return func(title, body string) {
		mu.Lock()
		defer mu.Unlock()
		if body == "" || strings.EqualFold(title, body) {
			fmt.Fprintf(w, "%s%s%s\n", colorBold, title, colorReset)
			return
		}
		fmt.Fprintf(w, "%s%s%s %s\n", colorBold, title, colorReset, body)
	}
}
