package todoform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/theme"
)

// TodoSubmittedMsg is dispatched when the form is completed. ID is zero
// for a new todo.
type TodoSubmittedMsg struct {
	ID        int64
	Title     string
	Completed bool
}

// IsEdit reports whether the submission edits an existing todo.
func (m TodoSubmittedMsg) IsEdit() bool { return m.ID != 0 }

// TodoFormCancelMsg is dispatched when the user cancels the form.
type TodoFormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title     string
	completed bool
}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	editID int64
	width  int
	height int
}

// New creates a new todo form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new todo.
func (m *Model) StartCreate() tea.Cmd {
	m.editID = 0
	m.fb.title = ""
	m.fb.completed = false
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with todo's current values.
func (m *Model) StartEdit(todo model.Todo) tea.Cmd {
	m.editID = todo.ID
	m.fb.title = todo.Title
	m.fb.completed = todo.Completed
	m.form = m.buildForm()
	return m.form.Init()
}

// Editing reports whether the form edits an existing todo.
func (m Model) Editing() bool { return m.editID != 0 }

// Update handles messages for the todo form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submitted := TodoSubmittedMsg{ID: m.editID, Title: m.fb.title, Completed: m.fb.completed}
		m.form = nil
		return m, func() tea.Msg { return submitted }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return TodoFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the todo form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Todo"
	if m.Editing() {
		titleText = "Edit Todo"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What needs to be done?").
				Value(&m.fb.title).
				Validate(validateTitle),
			huh.NewConfirm().
				Title("Completed?").
				Affirmative("Yes").
				Negative("No").
				Value(&m.fb.completed),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 8 {
		h = 8
	}
	return h
}

// validateTitle rejects blank titles before they reach the store.
func validateTitle(s string) error {
	_, err := model.NormalizeTitle(s)
	return err
}
