package todoform

import (
	"errors"
	"testing"

	"github.com/nhle/todo-sync/internal/model"
)

func TestValidateTitle(t *testing.T) {
	t.Parallel()

	if err := validateTitle("  "); !errors.Is(err, model.ErrEmptyTitle) {
		t.Errorf("blank title err = %v", err)
	}
	if err := validateTitle("ok"); err != nil {
		t.Errorf("valid title err = %v", err)
	}
}

func TestModel_StartEditPrefills(t *testing.T) {
	t.Parallel()

	m := New(80, 24)
	m.StartEdit(model.Todo{ID: 4, Title: "Existing", Completed: true})

	if !m.Editing() {
		t.Error("expected edit mode")
	}
	if m.fb.title != "Existing" || !m.fb.completed {
		t.Errorf("bindings = %+v", *m.fb)
	}

	m.StartCreate()
	if m.Editing() || m.fb.title != "" || m.fb.completed {
		t.Errorf("create did not reset bindings: edit=%v %+v", m.Editing(), *m.fb)
	}
}

func TestTodoSubmittedMsg_IsEdit(t *testing.T) {
	t.Parallel()

	if (TodoSubmittedMsg{Title: "x"}).IsEdit() {
		t.Error("zero id should be a create")
	}
	if !(TodoSubmittedMsg{ID: 3}).IsEdit() {
		t.Error("non-zero id should be an edit")
	}
}
