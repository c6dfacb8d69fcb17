package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/jot/internal/prefs"
	"github.com/five82/jot/internal/state"
	"github.com/five82/jot/internal/todoapi"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   todoapi.Service
	Logger    *zap.Logger
	BaseURL   string
	MaxLen    int
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	service   todoapi.Service
	logger    *zap.Logger
	baseURL   string
	prefsPath string
	keys      keyMap

	// UI state
	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool

	// Components
	input   textinput.Model
	list    viewport.Model
	spinner spinner.Model
	help    help.Model

	// Data state
	state       state.State
	fetchSeq    uint64 // id of the newest fetch; older results are dropped
	lastUpdated time.Time
	now         func() time.Time
}

// New creates the model. The initial fetch is already marked outstanding so
// the first frame shows the loading text; Init issues the request.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.Prompt = "> "
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := Model{
		ctx:       ctx,
		service:   opts.Service,
		logger:    logger,
		baseURL:   opts.BaseURL,
		prefsPath: prefsPath,
		keys:      defaultKeyMap(),
		theme:     GetTheme(themeName),
		input:     ti,
		list:      viewport.New(0, 0),
		spinner:   sp,
		help:      help.New(),
		state:     state.New(opts.MaxLen).BeginFetch(),
		fetchSeq:  1,
		now:       time.Now,
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		clockCmd(),
		fetchTodosCmd(m.ctx, m.service, m.fetchSeq, false),
	)
}

// Update implements tea.Model. It applies state transitions only; every
// request runs in a tea.Cmd.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case todosLoadedMsg:
		return m.handleTodosLoaded(msg)

	case todoCreatedMsg:
		return m.handleTodoCreated(msg)

	case prefsSavedMsg:
		if msg.err != nil {
			m.logger.Warn("save prefs failed", zap.Error(msg.err))
		}
		return m, nil

	case clockMsg:
		m.syncList()
		return m, clockCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.state.Busy() {
			m.syncList()
		}
		return m, cmd
	}

	next, cmd := m.input.Update(msg)
	return m.acceptInput(next, cmd)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.syncList()
		return m, savePrefsCmd(m.prefsPath, prefs.Prefs{Theme: m.theme.Name})

	case key.Matches(msg, m.keys.Refresh):
		if m.state.Busy() {
			return m, nil
		}
		m.state = m.state.BeginFetch()
		m.syncList()
		m.fetchSeq++
		return m, fetchTodosCmd(m.ctx, m.service, m.fetchSeq, false)

	case key.Matches(msg, m.keys.PageUp):
		m.list.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.list.PageDown()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	}

	return m.edit(msg)
}

// edit feeds a keystroke to the input.
func (m Model) edit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Form.Submitting {
		return m, nil
	}
	next, cmd := m.input.Update(msg)
	return m.acceptInput(next, cmd)
}

// acceptInput keeps an updated input only when its value is unchanged or
// the state accepts the new value, so the input and Form.Input never
// diverge. Clipboard pastes arrive here as non-key messages.
func (m Model) acceptInput(next textinput.Model, cmd tea.Cmd) (Model, tea.Cmd) {
	if next.Value() == m.input.Value() {
		m.input = next
		return m, cmd
	}
	if m.state.Form.Submitting {
		return m, nil
	}
	st, ok := m.state.Edit(next.Value())
	if !ok {
		m.logger.Debug("input rejected", zap.Int("length", len([]rune(next.Value()))))
		return m, nil
	}
	m.state = st
	m.input = next
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	st, description, err := m.state.BeginSubmit()
	m.state = st
	if err != nil {
		var verr *state.ValidationError
		if errors.As(err, &verr) {
			m.logger.Debug("todo rejected", zap.String("reason", verr.Message))
		}
		return m, nil
	}
	m.input.Blur()
	m.syncList()
	return m, tea.Batch(m.spinner.Tick, createTodoCmd(m.ctx, m.service, description))
}

func (m Model) handleTodosLoaded(msg todosLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.fetchSeq {
		// Superseded by a later fetch, typically the refresh after a create.
		m.logger.Debug("stale todo list dropped", zap.Uint64("seq", msg.seq), zap.Uint64("current", m.fetchSeq))
		return m, nil
	}
	if msg.err != nil {
		m.logger.Error("error fetching todos", zap.Error(msg.err))
		m.state = m.state.FetchFailed(msg.err)
	} else {
		m.state = m.state.FetchSucceeded(msg.todos)
		m.lastUpdated = m.now()
	}
	if msg.afterCreate {
		m.state = m.state.SubmitFinished()
		m.input.SetValue(m.state.Form.Input)
		m.input.Focus()
	}
	m.syncList()
	if msg.err == nil {
		m.list.GotoTop()
	}
	return m, nil
}

func (m Model) handleTodoCreated(msg todoCreatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Error("error creating todo", zap.Error(msg.err))
		m.state = m.state.CreateFailed(msg.err)
		m.input.Focus()
		m.syncList()
		return m, nil
	}
	m.logger.Info("todo created", zap.String("id", string(msg.todo.ID)))
	m.state = m.state.CreateSucceeded()
	m.syncList()
	m.fetchSeq++
	return m, fetchTodosCmd(m.ctx, m.service, m.fetchSeq, true)
}

// Messages

type todosLoadedMsg struct {
	todos       []todoapi.Todo
	err         error
	seq         uint64
	afterCreate bool
}

type todoCreatedMsg struct {
	todo todoapi.Todo
	err  error
}

type prefsSavedMsg struct{ err error }

type clockMsg time.Time

// Commands

func fetchTodosCmd(ctx context.Context, service todoapi.Service, seq uint64, afterCreate bool) tea.Cmd {
	return func() tea.Msg {
		todos, err := service.FetchAllTodos(ctx)
		return todosLoadedMsg{todos: todos, err: err, seq: seq, afterCreate: afterCreate}
	}
}

func createTodoCmd(ctx context.Context, service todoapi.Service, description string) tea.Cmd {
	return func() tea.Msg {
		todo, err := service.CreateTodo(ctx, description)
		return todoCreatedMsg{todo: todo, err: err}
	}
}

func savePrefsCmd(path string, p prefs.Prefs) tea.Cmd {
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// clockCmd re-renders relative ages.
func clockCmd() tea.Cmd {
	return tea.Tick(ClockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
