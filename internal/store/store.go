package store

import (
	"context"
	"errors"

	"github.com/nhle/todo-sync/internal/model"
)

// ErrNotFound is returned when no todo has the requested id.
var ErrNotFound = errors.New("todo not found")

// TodoFilter narrows ListTodos. Nil fields match everything.
type TodoFilter struct {
	UserID    *int64
	Completed *bool
	Limit     int
	Offset    int
}

// Store defines the persistence interface behind the reference todo
// collection served by `todo serve`.
type Store interface {
	ListTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error)
	GetTodo(ctx context.Context, id int64) (model.Todo, error)
	CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error)
	ReplaceTodo(ctx context.Context, todo model.Todo) (model.Todo, error)
	PatchTodo(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error)
	DeleteTodo(ctx context.Context, id int64) error
	CountTodos(ctx context.Context) (int, error)
	Seed(ctx context.Context, todos []model.Todo) (int, error)
	Close() error
}
