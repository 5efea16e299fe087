package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/keys"
	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/remote"
	appsync "github.com/nhle/todo-sync/internal/sync"
	"github.com/nhle/todo-sync/internal/theme"
	"github.com/nhle/todo-sync/internal/todos"
	"github.com/nhle/todo-sync/internal/ui"
	"github.com/nhle/todo-sync/internal/ui/detail"
	helpview "github.com/nhle/todo-sync/internal/ui/help"
	"github.com/nhle/todo-sync/internal/ui/todoform"
	"github.com/nhle/todo-sync/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewForm
	ViewDetail
	ViewHelp
)

// Fetcher reads a single todo from the remote collection.
type Fetcher interface {
	Get(ctx context.Context, id int64) (remote.Result[model.Todo], error)
}

// Option configures a Model.
type Option func(*Model)

// WithFetcher lets the detail view compare a todo with the server's copy.
func WithFetcher(f Fetcher) Option {
	return func(m *Model) { m.fetcher = f }
}

// Model is the root Bubble Tea model. It renders the Todo Store's state
// and turns key presses into store commands.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *todos.Store
	watcher      *appsync.Watcher
	keys         *keys.KeyMap
	todoList     todolist.Model
	todoForm     todoform.Model
	detailView   detail.Model
	helpView     helpview.Model
	fetcher      Fetcher
	state        todos.State
	logger       *zap.Logger
	remoteLabel  string
	ready        bool
}

// New creates the root model over s. remoteLabel is shown in the header
// so the user can tell which collection is in use.
func New(s *todos.Store, logger *zap.Logger, remoteLabel string, opts ...Option) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	k := keys.DefaultKeyMap()
	m := Model{
		currentView: ViewList,
		store:       s,
		watcher:     appsync.NewWatcher(s),
		keys:        k,
		todoList:    todolist.New(80, 22),
		todoForm:    todoform.New(80, 22),
		detailView:  detail.New(k, 80, 22),
		helpView:    helpview.New(k, 80, 22),
		state:       s.Snapshot(),
		logger:      logger,
		remoteLabel: remoteLabel,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts listening for store changes and loads the list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.watcher.Current(),
		m.watcher.WaitForNextChange(),
		m.activate(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.resize()
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.StateChangedMsg:
		m.state = msg.State
		m.resize()
		cmd := m.todoList.SetTodos(m.state.Todos, m.state.Filter, m.state.Loading)
		return m, tea.Batch(cmd, m.watcher.WaitForNextChange())

	case commandDoneMsg:
		m.logResult(msg)
		return m, nil

	case todoform.TodoSubmittedMsg:
		m.currentView = ViewList
		if msg.IsEdit() {
			return m, m.replaceTodo(msg.ID, msg.Title, msg.Completed)
		}
		return m, m.createTodo(msg.Title, msg.Completed)

	case todoform.TodoFormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case detail.LoadedMsg:
		m.detailView, _ = m.detailView.Update(msg)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.currentView {
		case ViewList:
			return m.handleListKeys(msg)
		case ViewForm:
			// huh only aborts on ctrl+c, which quits here.
			if key.Matches(msg, m.keys.Dismiss) {
				m.currentView = ViewList
				return m, nil
			}
		case ViewHelp:
			if key.Matches(msg, m.keys.Help, m.keys.Dismiss, m.keys.Quit) {
				m.currentView = m.previousView
			}
			return m, nil
		}
	}

	return m.updateActiveView(msg)
}

// handleListKeys maps list-view keys onto store commands.
func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case key.Matches(msg, m.keys.CycleFilter):
		m.store.SetFilter(m.state.Filter.Next())
		return m, nil

	case key.Matches(msg, m.keys.FilterAll):
		m.store.SetFilter(model.FilterAll)
		return m, nil

	case key.Matches(msg, m.keys.FilterCompleted):
		m.store.SetFilter(model.FilterCompleted)
		return m, nil

	case key.Matches(msg, m.keys.FilterPending):
		m.store.SetFilter(model.FilterPending)
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if todo, ok := m.todoList.SelectedTodo(); ok {
			m.currentView = ViewDetail
			m.detailView.Show(todo, m.fetcher != nil)
			return m, m.fetchTodo(todo.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if todo, ok := m.todoList.SelectedTodo(); ok {
			return m, m.toggleTodo(todo.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.currentView = ViewForm
		return m, m.todoForm.StartCreate()

	case key.Matches(msg, m.keys.Edit):
		if todo, ok := m.todoList.SelectedTodo(); ok {
			m.currentView = ViewForm
			return m, m.todoForm.StartEdit(todo)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if todo, ok := m.todoList.SelectedTodo(); ok {
			return m, m.deleteTodo(todo.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, m.keys.Dismiss):
		m.store.DismissError()
		return m, nil
	}

	return m.updateActiveView(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.watcher.Stop()
	return m, tea.Quit
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.todoList, cmd = m.todoList.Update(msg)
	case ViewForm:
		m.todoForm, cmd = m.todoForm.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// resize recomputes child sizes, leaving a row for the error banner
// when one is shown.
func (m *Model) resize() {
	if !m.ready {
		return
	}
	m.layout = m.layout.WithBanner(m.state.Err != "")
	w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
	m.todoList.SetSize(w, h)
	m.todoForm.SetSize(w, h)
	m.detailView.SetSize(w, h)
	m.helpView.SetSize(w, h)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Todos", m.headerStatus())
	banner := m.layout.RenderBanner(m.state.Err, "r retry · esc dismiss")
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, banner, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewForm:
		return m.todoForm.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return m.todoList.View()
	}
}

// headerStatus summarizes stats and activity for the header's right side.
func (m Model) headerStatus() string {
	st := m.state.Stats
	parts := []string{
		theme.HeaderStyle.Render(fmt.Sprintf("%d/%d done", st.Completed, st.Total)),
		theme.RateStyle(st.CompletionRate).
			Background(theme.HeaderStyle.GetBackground()).
			Padding(0, 1).
			Render(fmt.Sprintf("%d%%", st.CompletionRate)),
	}
	switch {
	case m.state.Loading:
		parts = append(parts, theme.HeaderStyle.Render("loading…"))
	case m.state.Creating:
		parts = append(parts, theme.HeaderStyle.Render("saving…"))
	}
	if m.state.Offline {
		parts = append(parts, theme.OfflineBadgeStyle.Render("OFFLINE"))
	} else if m.remoteLabel != "" {
		parts = append(parts, theme.HeaderStyle.Render(m.remoteLabel))
	}
	return strings.Join(parts, "")
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewForm:
		return "enter submit | esc cancel"
	case ViewDetail:
		return "j/k scroll | esc back"
	default:
		return m.helpView.ShortView()
	}
}
