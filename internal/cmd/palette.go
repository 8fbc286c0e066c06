package cmd

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/runger/rcbar/internal/live"
	"github.com/runger/rcbar/internal/palette"
)

// minPaletteWidth is the narrowest terminal the palette will draw in.
const minPaletteWidth = 20

var paletteCmd = &cobra.Command{
	Use:     "palette [query]",
	Short:   "Open the interactive command palette",
	GroupID: groupCore,
	Long: `Open the interactive command palette on the controlling terminal.

Type a local path, a remote path (gdrive:docs) or a command name. Results
update as you type and as mounts and serves start or stop.

Keys:
  up/down, ctrl+p/ctrl+n   move the selection
  enter                    run the selected result
  alt+1..9, alt+a..z       run a result by its shortcut
  esc, ctrl+c              close`,
	RunE: runPalette,
}

func runPalette(cmd *cobra.Command, args []string) error {
	if os.Getenv("TERM") == "dumb" {
		return errors.New("the palette needs a capable terminal (TERM=dumb)")
	}
	in, out, err := openTTY()
	if err != nil {
		return fmt.Errorf("cannot open terminal: %w", err)
	}
	defer closeTTY(in, out)

	if w, _, err := term.GetSize(int(out.Fd())); err != nil || w < minPaletteWidth {
		return fmt.Errorf("terminal too narrow for the palette (need %d columns)", minPaletteWidth)
	}

	// Anything printed while the palette owns the screen is shown after it closes.
	var notices lockedBuffer
	var prog *tea.Program
	a, err := newApp(appOptions{
		logToFile: true,
		out:       &notices,
		confirm: func(prompt string) bool {
			return confirmOnTTY(prog, in, out, prompt)
		},
		quit: func() { prog.Quit() },
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := a.poller.Warm(ctx); err != nil {
		a.logger.Warn("loading remote snapshot", "error", err)
	}

	// Detect the color profile from the tty: stdout may be a pipe.
	lipgloss.SetColorProfile(termenv.NewOutput(out).ColorProfile())

	model := palette.NewModel(a.provider, a.provider, palette.Options{
		Debounce:         time.Duration(a.cfg.Palette.DebounceMs) * time.Millisecond,
		MaxResults:       a.cfg.Palette.MaxResults,
		ShowDescriptions: a.cfg.Palette.ShowDescriptions,
	})
	if len(args) > 0 {
		model = model.WithQuery(strings.Join(args, " "))
	}
	prog = tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)

	onUpdate := func() {
		go prog.Send(palette.LiveUpdatedMsg{})
	}
	if err := a.bus.Subscribe(live.EventUpdated, onUpdate); err != nil {
		return fmt.Errorf("subscribing to live updates: %w", err)
	}
	defer func() { _ = a.bus.Unsubscribe(live.EventUpdated, onUpdate) }()

	stopCh := make(chan struct{})
	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		a.poller.Run(ctx, stopCh)
	}()

	final, runErr := prog.Run()
	close(stopCh)
	<-pollDone

	if _, err := notices.WriteTo(cmd.OutOrStdout()); err != nil {
		a.logger.Debug("flushing notices", "error", err)
	}
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("palette: %w", runErr)
	}

	logPaletteExit(a.logger, final, a.poller.Stats())
	return nil
}

// logPaletteExit records how the palette closed and any control API
// trouble seen while it was open.
func logPaletteExit(logger *slog.Logger, final tea.Model, stats live.Stats) {
	if m, ok := final.(palette.Model); ok {
		switch r, executed := m.Executed(); {
		case executed:
			logger.Debug("palette closed after execution", "action", r.ActionID, "query", m.Query())
		case m.IsCancelled():
			logger.Debug("palette dismissed", "query", m.Query(),
				"remote_refreshes", stats.RemoteRefreshes, "resource_refreshes", stats.ResourceRefreshes)
		}
	}
	if stats.LastError != "" {
		logger.Info("control API errors while the palette was open",
			"failures", stats.Failures, "last_error", stats.LastError)
	}
}

// confirmOnTTY suspends the palette, asks prompt on the terminal and
// resumes it.
func confirmOnTTY(prog *tea.Program, in io.Reader, out io.Writer, prompt string) bool {
	if err := prog.ReleaseTerminal(); err != nil {
		return false
	}
	defer func() { _ = prog.RestoreTerminal() }()
	return promptYesNo(in, out, prompt)
}

// promptYesNo writes prompt and reads one answer line. Only y or yes
// confirm.
func promptYesNo(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func closeTTY(in, out *os.File) {
	_ = in.Close()
	if out != in {
		_ = out.Close()
	}
}

// lockedBuffer is an io.Writer safe for concurrent use.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.WriteTo(w)
}
