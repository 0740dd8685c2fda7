// ============================================================================
// noloop - Interactive REPL
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model for the noloop REPL. Inputs are evaluated in
//              one persistent global environment; printed output, values
//              and errors are shown in a scrollback viewport.
// Author:      Mike Stoffels
// Created:     2025-03-02
// License:     MIT
// ============================================================================

package repl

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	nllog "github.com/msto63/noloop/foundation/core/log"
	"github.com/msto63/noloop/foundation/lang"
	nlstringx "github.com/msto63/noloop/foundation/utils/stringx"
	"github.com/msto63/noloop/internal/journal"
	"github.com/msto63/noloop/pkg/core/version"
)

// Source is a named program run before the session starts
type Source struct {
	Name string
	Text string
}

// Config holds REPL configuration
type Config struct {
	Prompt      string
	HistorySize int

	// HistoryFile persists the input history; empty disables persistence
	HistoryFile string

	MaxSourceLength int
	MaxCallDepth    int

	// Prelude runs at start and after every reset
	Prelude []Source

	// Journal records every evaluation when set
	Journal journal.Store

	Logger *nllog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Prompt:      "nl> ",
		HistorySize: 500,
	}
}

// Model is the main Bubbletea model for the REPL
type Model struct {
	// State
	width  int
	height int
	ready  bool
	busy   bool
	runs   int
	// set when a reset is requested mid-evaluation; applied once the result arrives
	resetPending bool
	// cancels the running evaluation, nil while idle
	cancelRun context.CancelFunc
	fails  int

	// Components
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model

	// Session
	engine  *lang.Engine
	output  *bytes.Buffer
	entries []Entry

	// Input history
	inputHistory []string
	historyIndex int    // -1 while not navigating
	currentInput string // input being typed before navigation started

	cfg    Config
	logger *nllog.Logger
}

// New creates a REPL model and runs the prelude
func New(cfg Config) (Model, error) {
	defaults := DefaultConfig()
	if cfg.Prompt == "" {
		cfg.Prompt = defaults.Prompt
	}
	if cfg.HistorySize == 0 {
		cfg.HistorySize = defaults.HistorySize
	}
	base := cfg.Logger
	if base == nil {
		base = nllog.NewNop()
	}
	logger := base.WithField("component", "repl")

	output := &bytes.Buffer{}
	engine, err := lang.New(lang.Options{
		Logger:          base,
		MaxSourceLength: cfg.MaxSourceLength,
		MaxCallDepth:    cfg.MaxCallDepth,
		Output:          output,
	})
	if err != nil {
		return Model{}, err
	}

	ta := textarea.New()
	ta.Placeholder = "Enter evaluates, Alt+Enter adds a line"
	ta.Prompt = ""
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = FocusedInputStyle
	ta.BlurredStyle.Base = InputStyle

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	m := Model{
		textarea:     ta,
		spinner:      sp,
		engine:       engine,
		output:       output,
		entries:      []Entry{},
		inputHistory: LoadHistory(cfg.HistoryFile),
		historyIndex: -1,
		cfg:          cfg,
		logger:       logger,
	}

	if err := m.runPrelude(); err != nil {
		return Model{}, err
	}
	m.addEntry(Entry{Kind: EntrySystem, Content: fmt.Sprintf("noloop %s, language %s", version.Application, version.Language)})
	return m, nil
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 9
		viewportHeight := msg.Height - headerHeight - footerHeight
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.textarea.SetWidth(msg.Width - 4)
		m.updateViewportContent()

	case spinner.TickMsg:
		if m.busy {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case evalResultMsg:
		m.busy = false
		m.cancelRun = nil
		m.runs++
		if msg.printed != "" {
			m.addEntry(Entry{Kind: EntryOutput, Content: strings.TrimRight(msg.printed, "\n")})
		}
		if msg.err != nil {
			m.fails++
			m.addEntry(Entry{Kind: EntryError, Content: msg.err.Error(), Code: nlerror.GetCode(msg.err).String()})
		} else if msg.hasValue {
			m.addEntry(Entry{Kind: EntryValue, Content: msg.value, Duration: msg.duration})
		}
		if m.resetPending {
			m.resetPending = false
			m.reset()
		}
		m.updateViewportContent()
		m.viewport.GotoBottom()
	}

	if !m.busy {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.busy {
			m.cancelRun()
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.cancelRun != nil {
			m.cancelRun()
		}
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.entries = []Entry{}
		m.updateViewportContent()
		return m, nil

	case tea.KeyCtrlR:
		if m.busy {
			if !m.resetPending {
				m.resetPending = true
				m.addEntry(Entry{Kind: EntrySystem, Content: "reset queued until the running evaluation finishes"})
				m.updateViewportContent()
			}
			return m, nil
		}
		m.reset()
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		if msg.Alt {
			m.textarea.InsertString("\n")
			return m, nil
		}
		return m.submit()

	case tea.KeyUp:
		if len(m.inputHistory) > 0 {
			if m.historyIndex == -1 {
				m.currentInput = m.textarea.Value()
				m.historyIndex = len(m.inputHistory) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.textarea.SetValue(m.inputHistory[m.historyIndex])
			m.textarea.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.inputHistory)-1 {
				m.historyIndex++
				m.textarea.SetValue(m.inputHistory[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.textarea.SetValue(m.currentInput)
			}
			m.textarea.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// submit evaluates the current input or runs a session command
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}

	m.remember(input)
	m.textarea.Reset()
	m.addEntry(Entry{Kind: EntryInput, Content: input})

	if strings.HasPrefix(input, ":") {
		cmd := m.command(input)
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, cmd
	}

	m.busy = true
	eval := m.evaluate(input)
	m.updateViewportContent()
	m.viewport.GotoBottom()
	return m, tea.Batch(m.spinner.Tick, eval)
}

// command runs a session command such as :env or :reset
func (m *Model) command(input string) tea.Cmd {
	switch fields := strings.Fields(input); fields[0] {
	case ":quit", ":q":
		return tea.Quit
	case ":clear":
		m.entries = []Entry{}
	case ":reset":
		m.reset()
	case ":env":
		globals := m.engine.Globals()
		if len(fields) == 1 {
			m.addEntry(Entry{Kind: EntrySystem, Content: strings.Join(globals.Names(), " ")})
			break
		}
		for _, name := range fields[1:] {
			if !globals.Has(name) {
				m.addEntry(Entry{Kind: EntryError, Content: name + " is not defined", Code: nlerror.CodeUndefinedName.String()})
				continue
			}
			v, _ := globals.Get(name)
			m.addEntry(Entry{Kind: EntrySystem, Content: name + " = " + v.Repr()})
		}
	case ":help":
		m.addEntry(Entry{Kind: EntrySystem, Content: ":env [NAME...] lists globals or shows their values, :reset clears definitions, :clear clears the screen, :quit leaves"})
	default:
		m.addEntry(Entry{Kind: EntryError, Content: "unknown command " + fields[0] + ", try :help", Code: nlerror.CodeInvalidInput.String()})
	}
	return nil
}

// evaluate runs input on the engine. Only one evaluation runs at a time,
// the busy flag keeps further input out until the result arrives.
func (m *Model) evaluate(input string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelRun = cancel

	engine := m.engine
	output := m.output
	store := m.cfg.Journal
	logger := m.logger

	return func() tea.Msg {
		defer cancel()
		output.Reset()
		start := time.Now()
		res, err := engine.RunNamed(ctx, "repl", input)
		elapsed := time.Since(start)

		if store != nil {
			entry := journal.FromRun(journal.OriginREPL, "repl", input, res, err, elapsed)
			if jerr := store.Record(context.Background(), entry); jerr != nil {
				logger.LogError(jerr)
			}
		}

		msg := evalResultMsg{input: input, printed: output.String(), err: err, duration: elapsed}
		if res != nil {
			msg.duration = res.Duration
			if !res.Value.IsUnset() {
				msg.value = res.Value.Repr()
				msg.hasValue = true
			}
		}
		return msg
	}
}

// reset discards program definitions and reruns the prelude
func (m *Model) reset() {
	m.engine.Reset()
	if err := m.runPrelude(); err != nil {
		m.addEntry(Entry{Kind: EntryError, Content: err.Error(), Code: nlerror.GetCode(err).String()})
	} else {
		m.addEntry(Entry{Kind: EntrySystem, Content: "environment reset"})
	}
	m.updateViewportContent()
	m.viewport.GotoBottom()
}

func (m *Model) runPrelude() error {
	for _, src := range m.cfg.Prelude {
		m.output.Reset()
		if _, err := m.engine.RunNamed(context.Background(), src.Name, src.Text); err != nil {
			return nlerror.Wrap(err, "prelude "+src.Name+" failed").
				WithOperation("repl.prelude").
				WithDetail("file", src.Name)
		}
	}
	m.output.Reset()
	return nil
}

// remember appends input to the history unless it repeats the last entry
func (m *Model) remember(input string) {
	if len(m.inputHistory) == 0 || m.inputHistory[len(m.inputHistory)-1] != input {
		m.inputHistory = trimHistory(append(m.inputHistory, input), m.cfg.HistorySize)
		if err := SaveHistory(m.cfg.HistoryFile, m.inputHistory, m.cfg.HistorySize); err != nil {
			m.logger.WarnWithErr("failed to save input history", err)
		}
	}
	m.historyIndex = -1
	m.currentInput = ""
}

func (m *Model) addEntry(e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	m.entries = append(m.entries, e)
}

// Entries returns the scrollback
func (m Model) Entries() []Entry {
	return m.entries
}

// Engine returns the engine backing the session
func (m Model) Engine() *lang.Engine {
	return m.engine
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starting noloop..."
	}

	var b strings.Builder

	b.WriteString(LogoStyle.Render(Logo) + "  " + SubHeaderStyle.Render("interactive session"))
	b.WriteString("\n")

	b.WriteString(ScrollbackPanelStyle.Width(m.width - 2).Render(m.viewport.View()))
	b.WriteString("\n")

	b.WriteString(m.renderInputArea())
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	b.WriteString(m.renderHelpBar())

	return b.String()
}

func (m Model) renderInputArea() string {
	if m.busy {
		return InputStyle.Width(m.width - 2).Render(m.spinner.View() + BusyStyle.Render(" evaluating..."))
	}
	return FocusedInputStyle.Width(m.width - 2).Render(m.textarea.View())
}

func (m Model) renderStatusBar() string {
	left := HelpDescStyle.Render(fmt.Sprintf("globals: %d", m.engine.Globals().Len()))
	center := HelpDescStyle.Render("v" + version.Application)

	right := StatusOKStyle.Render(fmt.Sprintf("runs: %d", m.runs))
	if m.fails > 0 {
		right += " " + StatusFailStyle.Render(fmt.Sprintf("errors: %d", m.fails))
	}
	if m.cfg.Journal != nil {
		right += " " + HelpDescStyle.Render("[journal]")
	}

	space := m.width - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right) - 4
	if space < 2 {
		space = 2
	}
	content := left + strings.Repeat(" ", space/2) + center + strings.Repeat(" ", space-space/2) + right

	return StatusBarStyle.Width(m.width - 2).Render(content)
}

func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("Enter", "evaluate"),
		RenderKeyHint("Alt+Enter", "newline"),
		RenderKeyHint("↑/↓", "history"),
		RenderKeyHint("Ctrl+R", "reset"),
		RenderKeyHint("Ctrl+L", "clear"),
		RenderKeyHint("Ctrl+C", "cancel run"),
		RenderKeyHint("Esc", "quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent renders the scrollback into the viewport
func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	var content strings.Builder

	for _, e := range m.entries {
		content.WriteString(renderEntry(e, m.cfg.Prompt))
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func renderEntry(e Entry, prompt string) string {
	switch e.Kind {
	case EntryInput:
		lines := nlstringx.SplitLines(e.Content)
		cont := strings.Repeat(" ", lipgloss.Width(prompt))
		for i, line := range lines {
			p := prompt
			if i > 0 {
				p = cont
			}
			lines[i] = PromptStyle.Render(p) + InputEchoStyle.Render(line)
		}
		return strings.Join(lines, "\n")
	case EntryOutput:
		return OutputStyle.Render(e.Content)
	case EntryValue:
		return ValueStyle.Render("= "+e.Content) + "  " + HelpDescStyle.Render(e.Duration.Round(time.Microsecond).String())
	case EntryError:
		return ErrorCodeStyle.Render(e.Code) + " " + ErrorStyle.Render(e.Content)
	default:
		return SystemStyle.Render(e.Content)
	}
}

// Run starts the REPL TUI
func Run(cfg Config) error {
	m, err := New(cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
