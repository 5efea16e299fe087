package todolist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/theme"
)

// TodoItem wraps a model.Todo so it can be used in a bubbles/list.
type TodoItem struct {
	Todo model.Todo
}

// FilterValue returns the string used for fuzzy filtering.
func (i TodoItem) FilterValue() string { return i.Todo.Title }

// Title returns the todo title for the list.
func (i TodoItem) Title() string { return i.Todo.Title }

// Description returns a short summary line for the list.
func (i TodoItem) Description() string {
	status := "pending"
	if i.Todo.Completed {
		status = "completed"
	}
	return fmt.Sprintf("#%d | %s", i.Todo.ID, status)
}

// ItemDelegate implements list.ItemDelegate for rendering todos.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single todo line: marker, title, id.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TodoItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderLine(ti.Todo, index == m.Index(), m.Width()))
}

func renderLine(todo model.Todo, selected bool, width int) string {
	marker := "○"
	if todo.Completed {
		marker = "✓"
	}
	marker = theme.CheckStyle(todo.Completed).Render(marker)

	id := theme.HelpStyle.Render(fmt.Sprintf("#%d", todo.ID))

	// Leave room for the marker, id and padding.
	avail := width - lipgloss.Width(id) - 6
	title := truncate(todo.Title, avail)

	switch {
	case selected:
		title = theme.SelectedItemStyle.Render(marker + " " + title)
	case todo.Completed:
		title = theme.ListItemStyle.Render(marker + " " + theme.CompletedStyle.Render(title))
	default:
		title = theme.ListItemStyle.Render(marker + " " + title)
	}
	return title + " " + id
}

// truncate shortens s to n display cells, ending with an ellipsis.
func truncate(s string, n int) string {
	if n <= 0 || lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
