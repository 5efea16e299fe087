package model

import (
	"errors"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "task", want: "task"},
		{in: "  padded  ", want: "padded"},
		{in: "\tnew\nline\n", want: "new\nline"},
		{in: "", wantErr: true},
		{in: " \t\n ", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeTitle(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrEmptyTitle) {
				t.Errorf("NormalizeTitle(%q) err = %v, want ErrEmptyTitle", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("NormalizeTitle(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestTodo_Apply(t *testing.T) {
	t.Parallel()

	base := Todo{UserID: 1, ID: 9, Title: "old", Completed: false}

	if got := base.Apply(TodoPatch{}); got != base {
		t.Errorf("empty patch changed todo: %+v", got)
	}

	got := base.Apply(TodoPatch{Completed: BoolPtr(true)})
	if got.Title != "old" || !got.Completed {
		t.Errorf("completed patch = %+v", got)
	}

	got = base.Apply(TodoPatch{Title: StringPtr("new"), Completed: BoolPtr(false)})
	if got.Title != "new" || got.Completed || got.ID != 9 || got.UserID != 1 {
		t.Errorf("full patch = %+v", got)
	}

	if base.Title != "old" {
		t.Error("Apply mutated the receiver")
	}
}

func TestTodoPatch_IsEmpty(t *testing.T) {
	t.Parallel()

	if !(TodoPatch{}).IsEmpty() {
		t.Error("zero patch should be empty")
	}
	if (TodoPatch{Title: StringPtr("")}).IsEmpty() {
		t.Error("patch with a title pointer is not empty")
	}
}
