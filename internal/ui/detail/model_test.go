package detail

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-sync/internal/keys"
	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/remote"
)

func TestModel_ServerSection(t *testing.T) {
	t.Parallel()

	local := model.Todo{UserID: 1, ID: 3, Title: "Master concurrency"}

	tests := []struct {
		name string
		msg  LoadedMsg
		want []string
	}{
		{
			name: "in sync",
			msg:  LoadedMsg{ID: 3, Result: remote.Result[model.Todo]{Data: local}},
			want: []string{"In sync"},
		},
		{
			name: "differs",
			msg: LoadedMsg{ID: 3, Result: remote.Result[model.Todo]{
				Data: model.Todo{UserID: 1, ID: 3, Title: "Master generics", Completed: true},
			}},
			want: []string{"Differs", "Master generics", "completed"},
		},
		{
			name: "offline",
			msg:  LoadedMsg{ID: 3, Result: remote.Result[model.Todo]{Offline: true}},
			want: []string{"OFFLINE"},
		},
		{
			name: "error",
			msg:  LoadedMsg{ID: 3, Err: errors.New("get: context canceled")},
			want: []string{"context canceled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := New(keys.DefaultKeyMap(), 80, 20)
			m.Show(local, true)
			if !strings.Contains(m.View(), "Checking server") {
				t.Fatalf("expected pending fetch:\n%s", m.View())
			}

			m, _ = m.Update(tt.msg)
			view := m.View()
			for _, want := range append([]string{"Master concurrency", "PENDING"}, tt.want...) {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q:\n%s", want, view)
				}
			}
		})
	}
}

func TestModel_IgnoresStaleLoad(t *testing.T) {
	t.Parallel()

	m := New(keys.DefaultKeyMap(), 80, 20)
	m.Show(model.Todo{ID: 2, Title: "Build Todo App", Completed: true}, true)

	m, _ = m.Update(LoadedMsg{ID: 9, Result: remote.Result[model.Todo]{Offline: true}})
	if !strings.Contains(m.View(), "Checking server") {
		t.Errorf("load for another id should be ignored:\n%s", m.View())
	}
}

func TestModel_BackKeys(t *testing.T) {
	t.Parallel()

	for _, k := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyEnter}} {
		m := New(keys.DefaultKeyMap(), 80, 20)
		m.Show(model.Todo{ID: 1, Title: "Learn Go"}, false)

		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: expected a command", k)
		}
		if _, ok := cmd().(BackMsg); !ok {
			t.Errorf("%s: expected BackMsg", k)
		}
	}
}

func TestModel_Empty(t *testing.T) {
	t.Parallel()

	m := New(keys.DefaultKeyMap(), 40, 5)
	if !strings.Contains(m.View(), "No todo selected") {
		t.Errorf("view = %q", m.View())
	}
	if _, ok := m.Todo(); ok {
		t.Error("Todo() should report nothing shown")
	}
}
