// Package detail shows one todo alongside the server's copy of it.
package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-sync/internal/keys"
	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/remote"
	"github.com/nhle/todo-sync/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// LoadedMsg carries the server's copy of todo ID.
type LoadedMsg struct {
	ID     int64
	Result remote.Result[model.Todo]
	Err    error
}

// Model is the todo detail view component.
type Model struct {
	todo     *model.Todo
	server   *remote.Result[model.Todo]
	loadErr  error
	fetching bool
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Show displays the local copy of todo. fetching marks that the server
// copy has been requested and a LoadedMsg will follow.
func (m *Model) Show(todo model.Todo, fetching bool) {
	m.todo = &todo
	m.server = nil
	m.loadErr = nil
	m.fetching = fetching
	m.refresh()
}

// Todo returns the todo being shown.
func (m Model) Todo() (model.Todo, bool) {
	if m.todo == nil {
		return model.Todo{}, false
	}
	return *m.todo, true
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if m.todo == nil || msg.ID != m.todo.ID {
			return m, nil
		}
		m.fetching = false
		if msg.Err != nil {
			m.loadErr = msg.Err
		} else {
			res := msg.Result
			m.server = &res
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Dismiss, m.keys.Open) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.todo == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No todo selected")
	}
	return m.viewport.View()
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.refresh()
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

func statusText(completed bool) string {
	if completed {
		return "completed"
	}
	return "pending"
}

func (m Model) renderContent() string {
	if m.todo == nil {
		return ""
	}
	todo := *m.todo

	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	row := func(label, value string) string {
		return fmt.Sprintf("%s %s", labelStyle.Render(fmt.Sprintf("%-8s", label+":")), valStyle.Render(value))
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections := []string{
		titleStyle.Render(todo.Title),
		theme.CheckStyle(todo.Completed).Bold(true).Render(strings.ToUpper(statusText(todo.Completed))),
		"",
		row("ID", fmt.Sprintf("%d", todo.ID)),
		row("User", fmt.Sprintf("%d", todo.UserID)),
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-4, 60), 0)))
	sections = append(sections, "", sep, "")
	sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render("Server"))
	sections = append(sections, m.renderServer(todo, row)...)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderServer(local model.Todo, row func(string, string) string) []string {
	muted := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)

	switch {
	case m.fetching:
		return []string{muted.Render("Checking server…")}
	case m.loadErr != nil:
		return []string{lipgloss.NewStyle().Foreground(theme.ColorRed).Render(m.loadErr.Error())}
	case m.server == nil:
		return []string{muted.Render("Not checked")}
	case m.server.Offline:
		return []string{theme.OfflineBadgeStyle.Render("OFFLINE"), muted.Render("The server could not be reached.")}
	}

	remoteTodo := m.server.Data
	if remoteTodo.Title == local.Title && remoteTodo.Completed == local.Completed {
		return []string{lipgloss.NewStyle().Foreground(theme.ColorGreen).Render("In sync")}
	}
	return []string{
		lipgloss.NewStyle().Foreground(theme.ColorOrange).Render("Differs from the local copy"),
		row("Title", remoteTodo.Title),
		row("Status", statusText(remoteTodo.Completed)),
	}
}
