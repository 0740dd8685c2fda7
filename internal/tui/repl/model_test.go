package repl

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	"github.com/msto63/noloop/internal/journal"
)

func newTestModel(t *testing.T, cfg Config) Model {
	t.Helper()
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

// collect runs cmd and flattens batches into their messages
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func submit(t *testing.T, m Model, input string) Model {
	t.Helper()
	m.textarea.SetValue(input)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	for _, msg := range collect(cmd) {
		if r, ok := msg.(evalResultMsg); ok {
			updated, _ = m.Update(r)
			m = updated.(Model)
		}
	}
	return m
}

func press(m Model, key tea.KeyType) Model {
	updated, _ := m.Update(tea.KeyMsg{Type: key})
	return updated.(Model)
}

func lastEntry(t *testing.T, m Model) Entry {
	t.Helper()
	entries := m.Entries()
	if len(entries) == 0 {
		t.Fatal("scrollback is empty")
	}
	return entries[len(entries)-1]
}

func TestNew(t *testing.T) {
	m := newTestModel(t, Config{})

	if m.cfg.Prompt != "nl> " {
		t.Errorf("Prompt = %q, want default", m.cfg.Prompt)
	}
	if m.cfg.HistorySize != 500 {
		t.Errorf("HistorySize = %d, want 500", m.cfg.HistorySize)
	}
	if got := lastEntry(t, m); got.Kind != EntrySystem || !strings.HasPrefix(got.Content, "noloop ") {
		t.Errorf("banner = %+v", got)
	}
	if !strings.Contains(m.View(), Logo) {
		t.Error("View() should contain the logo")
	}
}

func TestModel_Evaluate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    EntryKind
		content string
		code    string
	}{
		{"arithmetic", "2 + 3 * 4", EntryValue, "14", ""},
		{"string value is quoted", `"a" + "b"`, EntryValue, `"ab"`, ""},
		{"comparison", "1 <= 2", EntryValue, "true", ""},
		{"undefined name", "nope", EntryError, "", nlerror.CodeUndefinedName.String()},
		{"parse error", "1 +", EntryError, "", nlerror.CodeIncompleteProgram.String()},
		{"division by zero", "1 / 0", EntryError, "", nlerror.CodeDivisionByZero.String()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := submit(t, newTestModel(t, Config{}), tt.input)

			got := lastEntry(t, m)
			if got.Kind != tt.kind {
				t.Fatalf("last entry = %+v, want kind %v", got, tt.kind)
			}
			if tt.content != "" && got.Content != tt.content {
				t.Errorf("content = %q, want %q", got.Content, tt.content)
			}
			if got.Code != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
			if m.busy {
				t.Error("model should not be busy after the result arrived")
			}
			if m.runs != 1 {
				t.Errorf("runs = %d, want 1", m.runs)
			}
		})
	}
}

func TestModel_PrintOutput(t *testing.T) {
	m := submit(t, newTestModel(t, Config{}), `print("hi", 2)`)

	entries := m.Entries()
	got := entries[len(entries)-1]
	if got.Kind != EntryOutput || got.Content != "hi 2" {
		t.Errorf("last entry = %+v, want printed output", got)
	}
	if entries[len(entries)-2].Kind != EntryInput {
		t.Errorf("entry before output = %+v, want input echo", entries[len(entries)-2])
	}
}

func TestModel_SharedEnvironment(t *testing.T) {
	m := newTestModel(t, Config{})
	m = submit(t, m, "x = 5")
	m = submit(t, m, "fun twice(n) { return n * 2 }")
	m = submit(t, m, "twice(x)")

	if got := lastEntry(t, m); got.Kind != EntryValue || got.Content != "10" {
		t.Errorf("last entry = %+v, want 10", got)
	}
}

func TestModel_Reset(t *testing.T) {
	m := newTestModel(t, Config{})
	m = submit(t, m, "x = 5")
	m = press(m, tea.KeyCtrlR)

	if got := lastEntry(t, m); got.Kind != EntrySystem || got.Content != "environment reset" {
		t.Errorf("after reset = %+v", got)
	}

	m = submit(t, m, "x")
	if got := lastEntry(t, m); got.Code != nlerror.CodeUndefinedName.String() {
		t.Errorf("x after reset = %+v, want UNDEFINED_NAME", got)
	}

	m = submit(t, m, `print("still here")`)
	if got := lastEntry(t, m); got.Content != "still here" {
		t.Errorf("print after reset = %+v", got)
	}
}

func TestModel_ResetDuringEvaluation(t *testing.T) {
	m := newTestModel(t, Config{})
	m.textarea.SetValue("fun fib(n) { if n <= 1 { return n } else { return fib(n - 1) + fib(n - 2) } } x = fib(15)")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.busy {
		t.Fatal("model should be busy while the evaluation runs")
	}

	// Ctrl+R twice while the command has not delivered its result yet
	m = press(m, tea.KeyCtrlR)
	m = press(m, tea.KeyCtrlR)
	if !m.resetPending {
		t.Fatal("reset should be queued while busy")
	}
	queued := 0
	for _, e := range m.Entries() {
		if e.Content == "environment reset" {
			t.Fatal("environment was reset while the evaluation was running")
		}
		if strings.HasPrefix(e.Content, "reset queued") {
			queued++
		}
	}
	if queued != 1 {
		t.Errorf("queued notices = %d, want 1", queued)
	}

	for _, msg := range collect(cmd) {
		if r, ok := msg.(evalResultMsg); ok {
			if r.err != nil || r.value != "610" {
				t.Fatalf("evaluation = %+v, want 610", r)
			}
			updated, _ = m.Update(r)
			m = updated.(Model)
		}
	}

	if m.busy || m.resetPending {
		t.Errorf("busy = %v, resetPending = %v after the result", m.busy, m.resetPending)
	}
	entries := m.Entries()
	if len(entries) < 2 {
		t.Fatalf("entries = %+v", entries)
	}
	if got := entries[len(entries)-2]; got.Kind != EntryValue || got.Content != "610" {
		t.Errorf("value entry = %+v, want 610 before the reset", got)
	}
	if got := lastEntry(t, m); got.Content != "environment reset" {
		t.Errorf("last entry = %+v, want the queued reset", got)
	}
	if _, ok := m.Engine().Globals().Get("x"); ok {
		t.Error("x survived the queued reset")
	}
}

func TestModel_CancelEvaluation(t *testing.T) {
	m := newTestModel(t, Config{})
	m.textarea.SetValue("fun fib(n) { if n <= 1 { return n } else { return fib(n - 1) + fib(n - 2) } } fib(40)")
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	// Ctrl+C while busy cancels the run instead of quitting
	updated, quit := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(Model)
	if quit != nil {
		t.Fatal("Ctrl+C while busy should not quit")
	}

	for _, msg := range collect(cmd) {
		if r, ok := msg.(evalResultMsg); ok {
			updated, _ = m.Update(r)
			m = updated.(Model)
		}
	}

	if m.busy {
		t.Error("model should be idle after the cancelled run")
	}
	if got := lastEntry(t, m); got.Kind != EntryError || got.Code != nlerror.CodeCancelled.String() {
		t.Errorf("last entry = %+v, want CANCELLED", got)
	}

	m = submit(t, m, "fib(10)")
	if got := lastEntry(t, m); got.Content != "55" {
		t.Errorf("fib(10) after cancel = %+v, want 55", got)
	}
}

func TestModel_Prelude(t *testing.T) {
	cfg := Config{Prelude: []Source{{Name: "std.nl", Text: "fun double(n) { return n * 2 }"}}}
	m := newTestModel(t, cfg)

	m = submit(t, m, "double(4)")
	if got := lastEntry(t, m); got.Content != "8" {
		t.Errorf("double(4) = %+v", got)
	}

	m = press(m, tea.KeyCtrlR)
	m = submit(t, m, "double(5)")
	if got := lastEntry(t, m); got.Content != "10" {
		t.Errorf("prelude should survive reset, got %+v", got)
	}
}

func TestNew_PreludeError(t *testing.T) {
	_, err := New(Config{Prelude: []Source{{Name: "broken.nl", Text: "x = "}}})
	if err == nil {
		t.Fatal("New() should fail on a broken prelude")
	}
	if !nlerror.HasCode(err, nlerror.CodeIncompleteProgram) {
		t.Errorf("error = %v, want INCOMPLETE_PROGRAM", err)
	}
	e, _ := nlerror.As(err)
	if file, _ := e.Detail("file"); file != "broken.nl" {
		t.Errorf("file detail = %v", file)
	}
}

func TestModel_History(t *testing.T) {
	m := newTestModel(t, Config{})
	m = submit(t, m, "1")
	m = submit(t, m, "2")
	m = submit(t, m, "2")

	if len(m.inputHistory) != 2 {
		t.Fatalf("history = %v, repeated input should be stored once", m.inputHistory)
	}

	m.textarea.SetValue("draft")
	steps := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyUp, "2"},
		{tea.KeyUp, "1"},
		{tea.KeyUp, "1"},
		{tea.KeyDown, "2"},
		{tea.KeyDown, "draft"},
	}
	for i, step := range steps {
		m = press(m, step.key)
		if got := m.textarea.Value(); got != step.want {
			t.Errorf("step %d: input = %q, want %q", i, got, step.want)
		}
	}
}

func TestModel_HistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	m := newTestModel(t, Config{HistoryFile: path, HistorySize: 2})
	m = submit(t, m, "1")
	m = submit(t, m, "2")
	m = submit(t, m, "3")

	if got := LoadHistory(path); len(got) != 2 || got[0] != "2" || got[1] != "3" {
		t.Errorf("saved history = %v, want [2 3]", got)
	}

	again := newTestModel(t, Config{HistoryFile: path})
	again = press(again, tea.KeyUp)
	if got := again.textarea.Value(); got != "3" {
		t.Errorf("restored history head = %q, want 3", got)
	}
}

func TestModel_Journal(t *testing.T) {
	store := journal.NewMemoryStore()
	m := newTestModel(t, Config{Journal: store})
	m = submit(t, m, "1 + 1")
	m = submit(t, m, "missing")
	_ = submit(t, m, ":env")

	entries, err := store.Recent(context.Background(), journal.Filter{})
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("journal has %d entries, want 2 (commands are not recorded)", len(entries))
	}
	for _, e := range entries {
		if e.Origin != journal.OriginREPL || e.Name != "repl" {
			t.Errorf("entry = %+v", e)
		}
	}

	failed, _ := store.Recent(context.Background(), journal.Filter{OnlyFailed: true})
	if len(failed) != 1 || failed[0].ErrorCode != nlerror.CodeUndefinedName.String() {
		t.Errorf("failed entries = %+v", failed)
	}
}

func TestModel_Commands(t *testing.T) {
	m := newTestModel(t, Config{})

	m = submit(t, m, ":env")
	if got := lastEntry(t, m); got.Kind != EntrySystem || !strings.Contains(got.Content, "print") {
		t.Errorf(":env = %+v", got)
	}

	m = submit(t, m, `greeting = "hi"`)
	m = submit(t, m, ":env greeting nope")
	entries := m.Entries()
	if got := entries[len(entries)-2]; got.Kind != EntrySystem || got.Content != `greeting = "hi"` {
		t.Errorf(":env greeting = %+v", got)
	}
	if got := lastEntry(t, m); got.Kind != EntryError || got.Code != nlerror.CodeUndefinedName.String() {
		t.Errorf(":env nope = %+v", got)
	}

	m = submit(t, m, ":bogus")
	if got := lastEntry(t, m); got.Kind != EntryError || got.Code != nlerror.CodeInvalidInput.String() {
		t.Errorf(":bogus = %+v", got)
	}

	m = submit(t, m, ":clear")
	if n := len(m.Entries()); n != 0 {
		t.Errorf(":clear left %d entries", n)
	}

	m.textarea.SetValue(":quit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	msgs := collect(cmd)
	if len(msgs) != 1 {
		t.Fatalf(":quit produced %d messages", len(msgs))
	}
	if _, ok := msgs[0].(tea.QuitMsg); !ok {
		t.Errorf(":quit produced %T, want tea.QuitMsg", msgs[0])
	}
}

func TestModel_Keys(t *testing.T) {
	t.Run("ctrl+l clears", func(t *testing.T) {
		m := submit(t, newTestModel(t, Config{}), "1")
		m = press(m, tea.KeyCtrlL)
		if n := len(m.Entries()); n != 0 {
			t.Errorf("entries after Ctrl+L = %d", n)
		}
	})

	t.Run("alt+enter inserts newline", func(t *testing.T) {
		m := newTestModel(t, Config{})
		m.textarea.SetValue("x = 1")
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
		m = updated.(Model)
		if cmd != nil {
			t.Error("Alt+Enter should not evaluate")
		}
		if !strings.Contains(m.textarea.Value(), "\n") {
			t.Errorf("input = %q, want a newline", m.textarea.Value())
		}
	})

	t.Run("blank input is ignored", func(t *testing.T) {
		m := newTestModel(t, Config{})
		before := len(m.Entries())
		m = submit(t, m, "   ")
		if len(m.Entries()) != before || m.runs != 0 {
			t.Error("blank input should not be evaluated")
		}
	})

	t.Run("esc quits", func(t *testing.T) {
		m := newTestModel(t, Config{})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if msgs := collect(cmd); len(msgs) != 1 {
			t.Fatalf("Esc produced %v", msgs)
		} else if _, ok := msgs[0].(tea.QuitMsg); !ok {
			t.Errorf("Esc produced %T", msgs[0])
		}
	})
}

func TestRenderEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		want  []string
	}{
		{"input", Entry{Kind: EntryInput, Content: "a = 1\nb = 2"}, []string{"nl> ", "a = 1", "b = 2"}},
		{"value", Entry{Kind: EntryValue, Content: "3"}, []string{"= 3"}},
		{"error", Entry{Kind: EntryError, Content: "undefined name: x", Code: "UNDEFINED_NAME"}, []string{"UNDEFINED_NAME", "undefined name: x"}},
		{"system", Entry{Kind: EntrySystem, Content: "environment reset"}, []string{"environment reset"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderEntry(tt.entry, "nl> ")
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("renderEntry() = %q, missing %q", got, want)
				}
			}
		})
	}
}
