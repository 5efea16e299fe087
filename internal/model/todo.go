package model

import (
	"errors"
	"strings"
)

// DefaultUserID is the owner tag given to todos created by this client.
// There is no multi-user model; every local todo belongs to user 1.
const DefaultUserID int64 = 1

// ErrEmptyTitle is returned when a title is empty after trimming.
var ErrEmptyTitle = errors.New("todo title must not be empty")

// Todo is a single task record synchronized with the remote collection.
// Field names on the wire are fixed: userId, id, title, completed.
type Todo struct {
	UserID    int64  `json:"userId" db:"user_id"`
	ID        int64  `json:"id" db:"id"`
	Title     string `json:"title" db:"title"`
	Completed bool   `json:"completed" db:"completed"`
}

// TodoPatch is a partial field set. Nil fields are left untouched.
type TodoPatch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Apply returns a copy of t with every field set in p replaced.
func (t Todo) Apply(p TodoPatch) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// IsEmpty reports whether the patch sets no field at all.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// NormalizeTitle trims surrounding whitespace and rejects empty titles.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrEmptyTitle
	}
	return title, nil
}

// StringPtr returns a pointer to s. Handy for building patches.
func StringPtr(s string) *string { return &s }

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }
