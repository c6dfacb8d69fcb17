package ui

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/jot/internal/prefs"
	"github.com/five82/jot/internal/state"
	"github.com/five82/jot/internal/todoapi"
)

type fakeService struct {
	mu        sync.Mutex
	todos     []todoapi.Todo
	fetchErr  error
	createErr error
	calls     []string
}

func (f *fakeService) FetchAllTodos(ctx context.Context) ([]todoapi.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "fetch")
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]todoapi.Todo(nil), f.todos...), nil
}

func (f *fakeService) CreateTodo(ctx context.Context, description string) (todoapi.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create:"+description)
	if f.createErr != nil {
		return todoapi.Todo{}, f.createErr
	}
	todo := todoapi.Todo{ID: "1", Description: description}
	f.todos = append([]todoapi.Todo{todo}, f.todos...)
	return todo, nil
}

func newTestModel(t *testing.T, svc *fakeService, maxLen int) Model {
	t.Helper()
	m := New(Options{
		Service:   svc,
		MaxLen:    maxLen,
		BaseURL:   "http://localhost:8000",
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

// collect runs cmd and flattens batches. Only immediate commands may be
// passed; tick commands would sleep.
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

func find[T tea.Msg](t *testing.T, cmd tea.Cmd) T {
	t.Helper()
	for _, msg := range collect(cmd) {
		if typed, ok := msg.(T); ok {
			return typed
		}
	}
	var zero T
	t.Fatalf("command produced no %T", zero)
	return zero
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func loadInitial(t *testing.T, m Model, svc *fakeService) Model {
	t.Helper()
	m, _ = update(t, m, fetchTodosCmd(context.Background(), svc, m.fetchSeq, false)())
	return m
}

func TestModel_InitialFetch(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, 0)

	if !strings.Contains(m.View(), "Loading todos...") {
		t.Fatalf("initial view missing loading text:\n%s", m.View())
	}

	m = loadInitial(t, m, svc)
	if m.state.List.Loading || m.state.Phase != state.Idle {
		t.Fatalf("after load: loading=%v phase=%v", m.state.List.Loading, m.state.Phase)
	}
	if !strings.Contains(m.View(), "No todos yet. Create one below!") {
		t.Fatalf("empty view missing placeholder:\n%s", m.View())
	}
}

func TestModel_FetchErrorShown(t *testing.T) {
	svc := &fakeService{fetchErr: &todoapi.APIError{Message: "not found", Status: 404, Kind: todoapi.KindServer}}
	m := loadInitial(t, newTestModel(t, svc, 0), svc)

	if m.state.List.Error != "not found" {
		t.Fatalf("Error = %q, want not found", m.state.List.Error)
	}
	if !strings.Contains(m.View(), "Error: not found") {
		t.Fatalf("view missing error:\n%s", m.View())
	}
}

func TestModel_SubmitCreatesThenRefetches(t *testing.T) {
	svc := &fakeService{}
	m := loadInitial(t, newTestModel(t, svc, 0), svc)
	m = typeText(t, m, "  Buy milk ")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.state.Form.Submitting || m.state.Phase != state.Creating {
		t.Fatalf("after enter: submitting=%v phase=%v", m.state.Form.Submitting, m.state.Phase)
	}
	if !strings.Contains(m.View(), "Adding...") {
		t.Fatalf("view missing Adding...:\n%s", m.View())
	}

	// Typing and refreshing are ignored while submitting.
	m = typeText(t, m, "x")
	if m.input.Value() != "  Buy milk " {
		t.Fatalf("input changed while submitting: %q", m.input.Value())
	}
	if _, refresh := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR}); refresh != nil {
		t.Fatalf("refresh while submitting returned a command")
	}

	created := find[todoCreatedMsg](t, cmd)
	m, cmd = update(t, m, created)
	if !m.state.List.Loading {
		t.Fatalf("create success should start a refresh")
	}

	loaded := find[todosLoadedMsg](t, cmd)
	if !loaded.afterCreate {
		t.Fatalf("refresh after create not marked afterCreate")
	}
	m, _ = update(t, m, loaded)

	if m.input.Value() != "" || m.state.Form.Input != "" || m.state.Form.Submitting {
		t.Fatalf("form not reset: input=%q state=%#v", m.input.Value(), m.state.Form)
	}
	if len(m.state.List.Todos) != 1 || !strings.Contains(m.View(), "Buy milk") {
		t.Fatalf("list missing new todo:\n%s", m.View())
	}

	want := []string{"fetch", "create:Buy milk", "fetch"}
	if strings.Join(svc.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %q, want %q", svc.calls, want)
	}
}

func TestModel_BlankSubmitShowsValidation(t *testing.T) {
	svc := &fakeService{}
	m := loadInitial(t, newTestModel(t, svc, 0), svc)
	m = typeText(t, m, "   ")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("blank submit returned a command")
	}
	if m.state.Form.SubmitError != state.MessageEmptyDescription {
		t.Fatalf("SubmitError = %q", m.state.Form.SubmitError)
	}
	if !strings.Contains(m.View(), state.MessageEmptyDescription) {
		t.Fatalf("view missing validation message:\n%s", m.View())
	}

	m = typeText(t, m, "a")
	if m.state.Form.SubmitError != "" {
		t.Fatalf("edit should clear SubmitError")
	}
	if len(svc.calls) != 1 {
		t.Fatalf("calls = %q, want only the initial fetch", svc.calls)
	}
}

func TestModel_CreateFailureKeepsInput(t *testing.T) {
	svc := &fakeService{createErr: &todoapi.APIError{Message: todoapi.MessageTimeout, Status: 408, Kind: todoapi.KindTimeout}}
	m := loadInitial(t, newTestModel(t, svc, 0), svc)
	m = typeText(t, m, "Buy milk")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, next := update(t, m, find[todoCreatedMsg](t, cmd))
	if next != nil {
		t.Fatalf("failed create should not refetch")
	}
	if m.input.Value() != "Buy milk" || m.state.Form.Submitting {
		t.Fatalf("input=%q submitting=%v", m.input.Value(), m.state.Form.Submitting)
	}
	if m.state.Form.SubmitError != todoapi.MessageTimeout {
		t.Fatalf("SubmitError = %q", m.state.Form.SubmitError)
	}
}

func TestModel_KeystrokeBeyondLimitRejected(t *testing.T) {
	svc := &fakeService{}
	m := loadInitial(t, newTestModel(t, svc, 3), svc)

	m = typeText(t, m, "abc")
	m = typeText(t, m, "d")
	if m.input.Value() != "abc" || m.state.Form.Input != "abc" {
		t.Fatalf("input = %q / %q, want abc", m.input.Value(), m.state.Form.Input)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.state.Form.Input != "ab" {
		t.Fatalf("backspace not applied: %q", m.state.Form.Input)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("xyz"), Paste: true})
	if m.state.Form.Input != "ab" {
		t.Fatalf("overflowing paste should be rejected, got %q", m.state.Form.Input)
	}
}

func TestModel_RefreshIgnoredWhileLoading(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, 0)

	if _, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR}); cmd != nil {
		t.Fatalf("refresh while loading returned a command")
	}

	m = loadInitial(t, m, svc)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	if cmd == nil || !m.state.List.Loading {
		t.Fatalf("refresh when idle should start a fetch")
	}
	if _, ok := cmd().(todosLoadedMsg); !ok {
		t.Fatalf("refresh command did not fetch")
	}
}

func TestModel_CycleThemePersists(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, 0)
	if m.theme.Name != "Nightfox" {
		t.Fatalf("default theme = %q, want Nightfox", m.theme.Name)
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	saved := find[prefsSavedMsg](t, cmd)
	if saved.err != nil {
		t.Fatalf("save prefs: %v", saved.err)
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil || p.Theme != "Kanagawa" {
		t.Fatalf("prefs = %#v, %v; want Kanagawa", p, err)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, &fakeService{}, 0)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if !m.showHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown:\n%s", m.View())
	}
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp || cmd != nil {
		t.Fatalf("any key should only close help")
	}
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, &fakeService{}, 0)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c did not quit")
	}
}

// pasted returns a copy of the model's input holding value, as the
// textinput does after applying a clipboard paste.
func pasted(m Model, value string) textinput.Model {
	next := m.input
	next.SetValue(value)
	return next
}

func TestModel_ClipboardPasteBeyondLimitRejected(t *testing.T) {
	svc := &fakeService{}
	m := loadInitial(t, newTestModel(t, svc, 10), svc)

	m, _ = m.acceptInput(pasted(m, "pasted text that is long"), nil)
	if m.input.Value() != "" || m.state.Form.Input != "" {
		t.Fatalf("input = %q / %q, want both empty", m.input.Value(), m.state.Form.Input)
	}

	m, _ = m.acceptInput(pasted(m, "short"), nil)
	if m.input.Value() != "short" || m.state.Form.Input != "short" {
		t.Fatalf("input = %q / %q, want short", m.input.Value(), m.state.Form.Input)
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.state.Form.Submitting {
		t.Fatalf("enter after paste did not submit: %q", m.state.Form.SubmitError)
	}
	m, _ = update(t, m, find[todoCreatedMsg](t, cmd))
	if svc.calls[1] != "create:short" {
		t.Fatalf("calls = %q, want create:short", svc.calls)
	}
}

func TestModel_NonKeyInputChangeIgnoredWhileSubmitting(t *testing.T) {
	svc := &fakeService{}
	m := loadInitial(t, newTestModel(t, svc, 0), svc)
	m = typeText(t, m, "Buy milk")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = m.acceptInput(pasted(m, "Buy milk and eggs"), nil)
	if m.input.Value() != "Buy milk" || m.state.Form.Input != "Buy milk" {
		t.Fatalf("input = %q / %q, want Buy milk", m.input.Value(), m.state.Form.Input)
	}
}

func TestModel_StaleFetchDroppedAfterCreate(t *testing.T) {
	svc := &fakeService{}
	m := newTestModel(t, svc, 0)
	startupSeq := m.fetchSeq

	// Submit while the startup fetch is still outstanding.
	m = typeText(t, m, "Buy milk")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd = update(t, m, find[todoCreatedMsg](t, cmd))
	refetch := find[todosLoadedMsg](t, cmd)
	m, _ = update(t, m, refetch)
	if len(m.state.List.Todos) != 1 {
		t.Fatalf("todos = %#v, want the created todo", m.state.List.Todos)
	}

	m, _ = update(t, m, todosLoadedMsg{seq: startupSeq})
	if len(m.state.List.Todos) != 1 || m.state.List.Loading {
		t.Fatalf("stale fetch applied: todos=%#v loading=%v", m.state.List.Todos, m.state.List.Loading)
	}
}

func TestModel_StartupFetchAppliedAfterCreateFailure(t *testing.T) {
	svc := &fakeService{createErr: &todoapi.APIError{Message: todoapi.MessageNetwork, Kind: todoapi.KindNetwork}}
	m := newTestModel(t, svc, 0)
	initial := fetchTodosCmd(context.Background(), svc, m.fetchSeq, false)

	m = typeText(t, m, "Buy milk")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, find[todoCreatedMsg](t, cmd))
	if m.state.Phase != state.Idle {
		t.Fatalf("phase = %v, want idle after failed create", m.state.Phase)
	}

	m, _ = update(t, m, initial())
	if m.state.List.Loading {
		t.Fatalf("startup fetch dropped; list still loading")
	}
}
