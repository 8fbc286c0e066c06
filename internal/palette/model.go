// Package palette is the interactive command palette: a query line over a
// ranked list of resolved actions, each bound to a keyboard shortcut.
package palette

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runger/rcbar/internal/toolbar"
)

// DefaultDebounce is the delay after the last keystroke before resolving.
const DefaultDebounce = 40 * time.Millisecond

type paletteState int

const (
	stateIdle      paletteState = iota // Before the first fetch
	stateLoading                       // Fetch in progress
	stateLoaded                        // Results available
	stateEmpty                         // Fetch returned nothing
	stateError                         // Fetch failed
	stateExecuting                     // An action is running
	stateDone                          // An action ran and the palette closed
	stateCancelled                     // Esc / Ctrl+C
)

// LiveUpdatedMsg tells the palette the live cache changed and the current
// query should be resolved again.
type LiveUpdatedMsg struct{}

type fetchDoneMsg struct {
	requestID uint64
	results   []toolbar.Resolved
	err       error
}

type debounceMsg struct {
	id uint64
}

type execDoneMsg struct {
	result  toolbar.Resolved
	outcome Outcome
	err     error
}

type initMsg struct{}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Run    key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Run:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
	}
}

// Options tune a Model.
type Options struct {
	Debounce         time.Duration // 0 means DefaultDebounce
	MaxResults       int           // 0 means as many as fit
	ShowDescriptions bool
}

// Model is the Bubble Tea model for the palette.
type Model struct {
	state   paletteState
	input   textinput.Model
	keys    keyMap
	opts    Options
	results []toolbar.Resolved
	// Index into results; -1 when empty
	selection int
	err       error
	// status is a one-line message from the last execution
	status string

	requestID   uint64
	debounceID  uint64
	cancelFetch context.CancelFunc

	provider Provider
	executor Executor

	width  int
	height int

	executed *toolbar.Resolved
}

// NewModel creates a palette backed by provider and executor.
func NewModel(provider Provider, executor Executor, opts Options) Model {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "Type a command, a path or a remote"
	in.PromptStyle = promptStyle
	in.Focus()

	return Model{
		state:     stateIdle,
		input:     in,
		keys:      defaultKeyMap(),
		opts:      opts,
		selection: -1,
		provider:  provider,
		executor:  executor,
	}
}

// WithQuery pre-fills the query line.
func (m Model) WithQuery(q string) Model {
	m.input.SetValue(q)
	m.input.CursorEnd()
	return m
}

// Executed returns the result that ran and closed the palette.
func (m Model) Executed() (toolbar.Resolved, bool) {
	if m.executed == nil {
		return toolbar.Resolved{}, false
	}
	return *m.executed, true
}

// IsCancelled reports whether the user dismissed the palette.
func (m Model) IsCancelled() bool {
	return m.state == stateCancelled
}

// Query returns the current query text.
func (m Model) Query() string {
	return m.input.Value()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, func() tea.Msg { return initMsg{} })
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 1)
		return m, nil

	case fetchDoneMsg:
		return m.handleFetchDone(msg)

	case debounceMsg:
		if msg.id != m.debounceID {
			return m, nil
		}
		next := m.startFetch()
		return m, next

	case execDoneMsg:
		return m.handleExecDone(msg)

	case LiveUpdatedMsg:
		if m.state == stateExecuting || m.state == stateDone || m.state == stateCancelled {
			return m, nil
		}
		next := m.startRefresh()
		return m, next

	case initMsg:
		next := m.startFetch()
		return m, next
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Cancel) {
		m.state = stateCancelled
		m.cancelInflight()
		return m, tea.Quit
	}
	if m.state == stateExecuting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Run):
		if m.state != stateLoaded || m.selection < 0 || m.selection >= len(m.results) {
			return m, nil
		}
		next := m.execute(m.results[m.selection])
		return m, next

	case key.Matches(msg, m.keys.Up):
		if n := len(m.results); n > 0 {
			m.selection = (m.selection - 1 + n) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if n := len(m.results); n > 0 {
			m.selection = (m.selection + 1) % n
		}
		return m, nil
	}

	if msg.Alt && msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		return m.handleShortcut(string(msg.Runes))
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.status = ""
		debounce := m.startDebounce()
		return m, tea.Batch(cmd, debounce)
	}
	return m, cmd
}

func (m Model) handleShortcut(k string) (tea.Model, tea.Cmd) {
	if m.state != stateLoaded {
		return m, nil
	}
	idx, ok := toolbar.IndexForShortcut(k)
	if !ok || idx >= len(m.results) {
		return m, nil
	}
	m.selection = idx
	next := m.execute(m.results[idx])
	return m, next
}

func (m Model) handleFetchDone(msg fetchDoneMsg) (tea.Model, tea.Cmd) {
	if msg.requestID != m.requestID {
		return m, nil
	}
	m.cancelFetch = nil

	if msg.err != nil {
		m.state = stateError
		m.err = msg.err
		m.results = nil
		m.selection = -1
		return m, nil
	}

	m.err = nil
	m.results = msg.results
	if len(m.results) == 0 {
		m.state = stateEmpty
		m.selection = -1
		return m, nil
	}
	m.state = stateLoaded
	m.clampSelection()
	return m, nil
}

func (m Model) handleExecDone(msg execDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.state = stateLoaded
		m.status = fmt.Sprintf("%s failed: %v", msg.result.Label, msg.err)
		return m, nil
	}
	if msg.outcome.Rewritten {
		m.input.SetValue(msg.outcome.Rewrite)
		m.input.CursorEnd()
		m.selection = 0
		next := m.startFetch()
		return m, next
	}
	r := msg.result
	m.executed = &r
	m.state = stateDone
	return m, tea.Quit
}

// startDebounce bumps the debounce id and schedules a debounceMsg; only the
// latest one triggers a fetch.
func (m *Model) startDebounce() tea.Cmd {
	m.debounceID++
	id := m.debounceID
	return tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: id}
	})
}

// startFetch cancels any in-flight fetch and asks the provider for the
// current query under a new request id.
func (m *Model) startFetch() tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateLoading

	reqID := m.requestID
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelFetch = cancel

	req := Request{RequestID: reqID, Query: m.input.Value(), Limit: m.limit()}
	p := m.provider
	return func() tea.Msg {
		resp, err := p.Fetch(ctx, req)
		if err != nil {
			return fetchDoneMsg{requestID: reqID, err: err}
		}
		return fetchDoneMsg{requestID: reqID, results: resp.Results}
	}
}

// startRefresh resolves the query again. A loaded list stays visible and
// selectable until the new response replaces it.
func (m *Model) startRefresh() tea.Cmd {
	prev := m.state
	next := m.startFetch()
	if prev == stateLoaded {
		m.state = stateLoaded
	}
	return next
}

// execute runs r. Any refresh still in flight is dropped so its response
// cannot replace the list mid-execution.
func (m *Model) execute(r toolbar.Resolved) tea.Cmd {
	m.cancelInflight()
	m.requestID++
	m.state = stateExecuting
	m.status = ""
	ex := m.executor
	return func() tea.Msg {
		out, err := ex.Execute(context.Background(), r)
		return execDoneMsg{result: r, outcome: out, err: err}
	}
}

func (m *Model) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

func (m *Model) clampSelection() {
	if len(m.results) == 0 {
		m.selection = -1
		return
	}
	m.selection = max(0, min(m.selection, len(m.results)-1))
}

// limit is the number of results worth fetching.
func (m Model) limit() int {
	if m.opts.MaxResults > 0 {
		return min(m.opts.MaxResults, m.listHeight())
	}
	return m.listHeight()
}

// listHeight is the terminal height minus the query and status lines.
func (m Model) listHeight() int {
	const chrome = 2
	h := m.height - chrome
	if h < 1 {
		return 20
	}
	return h
}

// --- View rendering ---

var (
	promptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	shortcutStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteRune('\n')
	if body := m.viewContent(); body != "" {
		b.WriteString(body)
		b.WriteRune('\n')
	}
	b.WriteString(m.viewStatus())
	return b.String()
}

func (m Model) viewContent() string {
	switch m.state {
	case stateLoaded, stateExecuting:
		return m.viewList()
	case stateEmpty:
		return dimStyle.Render("No matches")
	case stateError:
		return errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	default:
		return ""
	}
}

func (m Model) viewList() string {
	rows := make([]string, 0, len(m.results))
	for i, r := range m.results {
		if i >= m.listHeight() {
			break
		}
		rows = append(rows, m.viewRow(i, r))
	}
	return strings.Join(rows, "\n")
}

func (m Model) viewRow(i int, r toolbar.Resolved) string {
	marker := "  "
	style := normalStyle
	if i == m.selection {
		marker = "> "
		style = selectedStyle
	}
	sc := r.Shortcut
	if sc == "" {
		sc = " "
	}

	text := Sanitize(r.Label)
	if m.opts.ShowDescriptions && r.Description != "" {
		text += " · " + Sanitize(r.Description)
	}
	// marker + shortcut + space
	if m.width > 4 {
		text = MiddleTruncate(text, m.width-4)
	}
	return marker + shortcutStyle.Render(sc) + " " + style.Render(text)
}

func (m Model) viewStatus() string {
	switch {
	case m.state == stateExecuting:
		return dimStyle.Render("Running…")
	case m.state == stateLoading || m.state == stateIdle:
		return dimStyle.Render("Loading…")
	case m.status != "":
		return errorStyle.Render(m.status)
	case m.state == stateCancelled:
		return dimStyle.Render("Cancelled")
	}
	return dimStyle.Render("enter run · alt+key shortcut · esc quit")
}
