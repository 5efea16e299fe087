package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/todo-sync/internal/model"
)

// todoRow is the scanned shape of a todos row. completed is stored as
// 0/1 so it is converted explicitly.
type todoRow struct {
	ID        int64  `db:"id"`
	UserID    int64  `db:"user_id"`
	Title     string `db:"title"`
	Completed int    `db:"completed"`
}

func (r todoRow) todo() model.Todo {
	return model.Todo{
		UserID:    r.UserID,
		ID:        r.ID,
		Title:     r.Title,
		Completed: r.Completed != 0,
	}
}

const todoColumns = "id, user_id, title, completed"

// ListTodos returns todos matching filter, ordered by id.
func (s *SQLiteStore) ListTodos(ctx context.Context, filter TodoFilter) ([]model.Todo, error) {
	var conditions []string
	var args []interface{}

	if filter.UserID != nil {
		conditions = append(conditions, "user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, boolToInt(*filter.Completed))
	}

	query := "SELECT " + todoColumns + " FROM todos"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id ASC"

	// SQLite only accepts OFFSET after LIMIT; -1 means unbounded.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query += fmt.Sprintf(" LIMIT %d", limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	var rows []todoRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}

	todos := make([]model.Todo, 0, len(rows))
	for _, r := range rows {
		todos = append(todos, r.todo())
	}
	return todos, nil
}

// GetTodo retrieves a single todo by id.
func (s *SQLiteStore) GetTodo(ctx context.Context, id int64) (model.Todo, error) {
	var row todoRow
	err := s.db.GetContext(ctx, &row, "SELECT "+todoColumns+" FROM todos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, fmt.Errorf("getting todo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Todo{}, fmt.Errorf("getting todo %d: %w", id, err)
	}
	return row.todo(), nil
}

// CreateTodo inserts todo and returns it with its assigned id. A zero
// UserID defaults to model.DefaultUserID; todo.ID is ignored.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	title, err := model.NormalizeTitle(todo.Title)
	if err != nil {
		return model.Todo{}, err
	}
	todo.Title = title
	if todo.UserID == 0 {
		todo.UserID = model.DefaultUserID
	}

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (user_id, title, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		todo.UserID, todo.Title, boolToInt(todo.Completed), now, now,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Todo{}, fmt.Errorf("reading new todo id: %w", err)
	}
	todo.ID = id
	return todo, nil
}

// ReplaceTodo overwrites every field of the todo with todo.ID.
func (s *SQLiteStore) ReplaceTodo(ctx context.Context, todo model.Todo) (model.Todo, error) {
	title, err := model.NormalizeTitle(todo.Title)
	if err != nil {
		return model.Todo{}, err
	}
	todo.Title = title
	if todo.UserID == 0 {
		todo.UserID = model.DefaultUserID
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET
			user_id = ?, title = ?, completed = ?, updated_at = ?
		WHERE id = ?`,
		todo.UserID, todo.Title, boolToInt(todo.Completed), time.Now().UTC(),
		todo.ID,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("updating todo %d: %w", todo.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return model.Todo{}, fmt.Errorf("updating todo %d: %w", todo.ID, ErrNotFound)
	}
	return todo, nil
}

// PatchTodo applies the set fields of patch to todo id inside one
// transaction and returns the result.
func (s *SQLiteStore) PatchTodo(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	if patch.Title != nil {
		title, err := model.NormalizeTitle(*patch.Title)
		if err != nil {
			return model.Todo{}, err
		}
		patch.Title = &title
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Todo{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var row todoRow
	err = tx.GetContext(ctx, &row, "SELECT "+todoColumns+" FROM todos WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, fmt.Errorf("patching todo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Todo{}, fmt.Errorf("patching todo %d: %w", id, err)
	}

	todo := row.todo().Apply(patch)
	_, err = tx.ExecContext(ctx, `
		UPDATE todos SET title = ?, completed = ?, updated_at = ?
		WHERE id = ?`,
		todo.Title, boolToInt(todo.Completed), time.Now().UTC(), id,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("patching todo %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return model.Todo{}, fmt.Errorf("committing patch of todo %d: %w", id, err)
	}
	return todo, nil
}

// DeleteTodo removes a todo by id.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("deleting todo %d: %w", id, ErrNotFound)
	}
	return nil
}

// CountTodos returns the number of stored todos.
func (s *SQLiteStore) CountTodos(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM todos"); err != nil {
		return 0, fmt.Errorf("counting todos: %w", err)
	}
	return count, nil
}

// Seed inserts todos, keeping their ids, when the table is empty. It
// returns the number of rows inserted.
func (s *SQLiteStore) Seed(ctx context.Context, todos []model.Todo) (int, error) {
	count, err := s.CountTodos(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 || len(todos) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO todos (id, user_id, title, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing seed statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, t := range todos {
		userID := t.UserID
		if userID == 0 {
			userID = model.DefaultUserID
		}
		if _, err := stmt.ExecContext(ctx, t.ID, userID, t.Title, boolToInt(t.Completed), now, now); err != nil {
			return 0, fmt.Errorf("seeding todo %d: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed: %w", err)
	}
	return len(todos), nil
}
