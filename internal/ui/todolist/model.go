package todolist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/theme"
)

// Model is the todo list view. It renders whatever it is handed; the
// Todo Store stays the source of truth.
type Model struct {
	list    list.Model
	filter  model.Filter
	loading bool
	width   int
	height  int
}

// New creates a new todo list model.
func New(width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, max(height-2, 0))
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		filter: model.FilterAll,
		width:  width,
		height: height,
	}
}

// SetTodos replaces the displayed todos, keeping the cursor on the same
// id when it is still present.
func (m *Model) SetTodos(todos []model.Todo, filter model.Filter, loading bool) tea.Cmd {
	var selectedID int64
	if sel, ok := m.SelectedTodo(); ok {
		selectedID = sel.ID
	}

	m.filter = filter
	m.loading = loading

	items := make([]list.Item, len(todos))
	cursor := -1
	for i, todo := range todos {
		items[i] = TodoItem{Todo: todo}
		if todo.ID == selectedID {
			cursor = i
		}
	}
	cmd := m.list.SetItems(items)
	if cursor >= 0 {
		m.list.Select(cursor)
	}
	return cmd
}

// SelectedTodo returns the todo under the cursor.
func (m Model) SelectedTodo() (model.Todo, bool) {
	item, ok := m.list.SelectedItem().(TodoItem)
	if !ok {
		return model.Todo{}, false
	}
	return item.Todo, true
}

// Len returns the number of displayed todos.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Update delegates navigation to the underlying list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the filter tabs above the list.
func (m Model) View() string {
	tabs := m.renderTabs()
	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, tabs, "", m.renderEmptyState())
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabs, "", m.list.View())
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(model.Filters))
	for i, f := range model.Filters {
		label := fmt.Sprintf("%d %s", i+1, strings.ToUpper(string(f[:1]))+string(f[1:]))
		tabs = append(tabs, theme.FilterTabStyle(f == m.filter).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderEmptyState shows guidance text when no todos match.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading:
		return style.Render("Loading todos...")
	case m.filter == model.FilterCompleted:
		return style.Render("No completed todos yet.")
	case m.filter == model.FilterPending:
		return style.Render("Nothing pending. Nice work!")
	default:
		return style.Render("No todos yet.\n\nPress n to add one.")
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-2, 0))
}
