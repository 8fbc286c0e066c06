// Package launcher performs the outward effects of executed actions:
// opening command windows, URLs and local paths.
//
// With an open command configured (for example "xdg-open" or
// "open -a Safari") the target is appended as the final argument and the
// command is started without waiting for it. Without one, the launcher
// prints "<name>: <target>" so headless use still shows where to go.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/google/shlex"

	"github.com/runger/rcbar/internal/toolbar"
)

// Config configures a Launcher.
type Config struct {
	// OpenCommand is split with POSIX shell rules. Empty means print only.
	OpenCommand string

	// UIBaseURL prefixes relative window routes.
	UIBaseURL string

	// Out receives the printed targets. Defaults to os.Stdout.
	Out io.Writer

	// Start runs argv. Defaults to starting a detached process.
	Start func(ctx context.Context, argv []string) error

	Logger *slog.Logger
}

// Launcher is safe for concurrent use.
type Launcher struct {
	argv    []string
	baseURL string
	start   func(ctx context.Context, argv []string) error
	logger  *slog.Logger

	mu  sync.Mutex
	out io.Writer
}

// New validates cfg and returns a launcher.
func New(cfg Config) (*Launcher, error) {
	argv, err := shlex.Split(cfg.OpenCommand)
	if err != nil {
		return nil, fmt.Errorf("splitting open command: %w", err)
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Start == nil {
		cfg.Start = startDetached
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Launcher{
		argv:    argv,
		baseURL: strings.TrimRight(cfg.UIBaseURL, "/"),
		start:   cfg.Start,
		logger:  cfg.Logger,
		out:     cfg.Out,
	}, nil
}

// OpenWindow opens the named command window at route, which may be
// relative to the UI base URL.
func (l *Launcher) OpenWindow(ctx context.Context, name, route string) error {
	return l.open(ctx, name, l.resolve(route))
}

// OpenURL opens an absolute URL.
func (l *Launcher) OpenURL(ctx context.Context, u string) error {
	return l.open(ctx, "Open", u)
}

// Reveal shows a local path in the file manager.
func (l *Launcher) Reveal(ctx context.Context, path string) error {
	if path == "" {
		return errors.New("reveal: empty path")
	}
	return l.open(ctx, "Reveal", path)
}

func (l *Launcher) resolve(route string) string {
	if l.baseURL == "" || strings.Contains(route, "://") {
		return route
	}
	return l.baseURL + "/" + strings.TrimLeft(route, "/")
}

func (l *Launcher) open(ctx context.Context, name, target string) error {
	if len(l.argv) == 0 {
		l.mu.Lock()
		defer l.mu.Unlock()
		_, err := fmt.Fprintf(l.out, "%s: %s\n", name, target)
		return err
	}

	argv := append(append([]string(nil), l.argv...), target)
	l.logger.Debug("launching", "name", name, "command", argv[0])
	if err := l.start(ctx, argv); err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	return nil
}

// Press returns a fresh execution context backed by l.
func (l *Launcher) Press() *Press {
	return &Press{l: l}
}

// Press is the toolbar.PressContext for a single execution. It records a
// query rewrite requested by the action.
type Press struct {
	l         *Launcher
	text      string
	rewritten bool
}

func (p *Press) OpenWindow(ctx context.Context, name, url string) error {
	return p.l.OpenWindow(ctx, name, url)
}

func (p *Press) UpdateText(text string) {
	p.text = text
	p.rewritten = true
}

// Rewrite returns the query the action asked for, if any.
func (p *Press) Rewrite() (string, bool) {
	return p.text, p.rewritten
}

func startDetached(_ context.Context, argv []string) error {
	// Not tied to ctx: the opened window outlives the palette.
	cmd := exec.Command(argv[0], argv[1:]...) //nolint:gosec // argv comes from the user's config
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

var _ toolbar.PressContext = (*Press)(nil)
