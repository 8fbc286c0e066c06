package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/runger/rcbar/internal/live"
	"github.com/runger/rcbar/internal/palette"
)

func TestLogPaletteExit_Dismissed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	m := palette.NewModel(nil, nil, palette.Options{}).WithQuery("mount gdrive:")
	final, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	logPaletteExit(logger, final, live.Stats{RemoteRefreshes: 2, Failures: 1, LastError: "connection refused"})
	out := buf.String()
	for _, want := range []string{
		`msg="palette dismissed"`,
		`query="mount gdrive:"`,
		"remote_refreshes=2",
		`last_error="connection refused"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s:\n%s", want, out)
		}
	}
}

func TestLogPaletteExit_Quiet(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logPaletteExit(logger, palette.NewModel(nil, nil, palette.Options{}), live.Stats{})
	if buf.Len() != 0 {
		t.Errorf("expected no log lines, got %q", buf.String())
	}
}
