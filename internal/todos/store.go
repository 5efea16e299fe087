package todos

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"

	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/remote"
)

// State is a consistent view of everything the presentation layer reads.
type State struct {
	// Todos is the list after applying Filter.
	Todos []model.Todo
	// All is the unfiltered list.
	All      []model.Todo
	Loading  bool
	Creating bool
	// Err is the last recorded error message, empty when none.
	Err     string
	Filter  model.Filter
	Stats   model.Stats
	Offline bool
}

// Store owns the canonical in-memory todo list and routes every mutation
// through the remote collection. Commands may be issued from several
// goroutines; responses are applied in the order they complete, so the
// last response for a given id wins.
type Store struct {
	api    remote.Todos
	logger *zap.Logger
	newID  func() int64

	mu       gosync.Mutex
	todos    []model.Todo
	filter   model.Filter
	loading  int
	creating int
	errMsg   string
	offline  bool
	subs     map[chan struct{}]struct{}

	activateOnce gosync.Once
	activateErr  error
}

// New creates a Store backed by api. A nil logger discards logs.
func New(api remote.Todos, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		api:    api,
		logger: logger,
		newID:  remote.NextLocalID,
		filter: model.FilterAll,
		subs:   make(map[chan struct{}]struct{}),
	}
}

// Activate loads the list the first time it is called. Later calls do
// nothing and return the first call's error.
func (s *Store) Activate(ctx context.Context) error {
	s.activateOnce.Do(func() {
		s.activateErr = s.Refresh(ctx)
	})
	return s.activateErr
}

// Refresh replaces the whole list with the remote collection. A remote
// that cannot be reached yields the sample list and no error.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.loading++
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	res, err := s.api.List(ctx)

	s.mu.Lock()
	s.loading--
	if err != nil {
		s.errMsg = failureMessage("fetch todos", err)
	} else {
		s.todos = s.uniqueByID(res.Data)
		s.offline = res.Offline
	}
	s.mu.Unlock()
	s.notify()

	if err != nil {
		return fmt.Errorf("refreshing todos: %w", err)
	}
	return nil
}

// Create adds a todo with the trimmed title. When the remote is
// unreachable the locally built todo is still appended, the error slot
// is set and an error wrapping remote.ErrOffline is returned with it.
func (s *Store) Create(ctx context.Context, title string, completed bool) (model.Todo, error) {
	title, err := model.NormalizeTitle(title)
	if err != nil {
		s.setError(failureMessage("create todo", err))
		return model.Todo{}, err
	}

	s.mu.Lock()
	s.creating++
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	res, err := s.api.Create(ctx, title, completed)

	s.mu.Lock()
	s.creating--
	if err != nil {
		s.errMsg = failureMessage("create todo", err)
		s.mu.Unlock()
		s.notify()
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}

	todo := res.Data
	if s.indexOf(todo.ID) >= 0 {
		assigned := s.freshID()
		s.logger.Warn("duplicate_todo_id",
			zap.Int64("remote_id", todo.ID),
			zap.Int64("assigned_id", assigned),
		)
		todo.ID = assigned
	}
	s.todos = append(s.todos, todo)
	if res.Offline {
		s.markOffline("create todo")
		err = fmt.Errorf("creating todo %q: %w", title, remote.ErrOffline)
	}
	s.mu.Unlock()
	s.notify()

	return todo, err
}

// Update applies a partial change to todo id. On success the stored copy
// is replaced by the remote's version. When the remote is unreachable
// the stored copy with the patch applied is kept instead, and an error
// wrapping remote.ErrOffline is returned alongside it.
func (s *Store) Update(ctx context.Context, id int64, patch model.TodoPatch) (model.Todo, error) {
	if patch.Title != nil {
		title, err := model.NormalizeTitle(*patch.Title)
		if err != nil {
			s.setError(failureMessage("update todo", err))
			return model.Todo{}, err
		}
		patch.Title = &title
	}

	s.setError("")
	res, err := s.api.Patch(ctx, id, patch)
	return s.reconcile("update todo", id, res, err, func(current model.Todo) model.Todo {
		return current.Apply(patch)
	})
}

// Replace overwrites title and completed of todo.ID in one full update.
func (s *Store) Replace(ctx context.Context, todo model.Todo) (model.Todo, error) {
	title, err := model.NormalizeTitle(todo.Title)
	if err != nil {
		s.setError(failureMessage("update todo", err))
		return model.Todo{}, err
	}
	todo.Title = title

	s.mu.Lock()
	if idx := s.indexOf(todo.ID); idx >= 0 && todo.UserID == 0 {
		todo.UserID = s.todos[idx].UserID
	}
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()

	res, err := s.api.Update(ctx, todo.ID, todo)
	return s.reconcile("update todo", todo.ID, res, err, func(current model.Todo) model.Todo {
		current.Title = todo.Title
		current.Completed = todo.Completed
		return current
	})
}

// reconcile applies a write result to the entry with the given id.
// offlineBasis derives the entry from its stored copy when the result
// was synthesized without the remote.
func (s *Store) reconcile(
	op string,
	id int64,
	res remote.Result[model.Todo],
	callErr error,
	offlineBasis func(current model.Todo) model.Todo,
) (model.Todo, error) {
	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()

	if callErr != nil {
		s.errMsg = failureMessage(op, callErr)
		return model.Todo{}, fmt.Errorf("%s %d: %w", op, id, callErr)
	}

	todo := res.Data
	idx := s.indexOf(id)
	if res.Offline && idx >= 0 {
		todo = offlineBasis(s.todos[idx])
	}
	todo.ID = id

	if idx >= 0 {
		s.todos[idx] = todo
	}

	if res.Offline {
		s.markOffline(op)
		return todo, fmt.Errorf("%s %d: %w", op, id, remote.ErrOffline)
	}
	return todo, nil
}

// ToggleCompletion flips the completed flag of todo id. found is false,
// and no remote call is made, when id is not in the list.
func (s *Store) ToggleCompletion(ctx context.Context, id int64) (todo model.Todo, found bool, err error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	var completed bool
	if idx >= 0 {
		completed = s.todos[idx].Completed
	}
	s.mu.Unlock()

	if idx < 0 {
		return model.Todo{}, false, nil
	}

	todo, err = s.Update(ctx, id, model.TodoPatch{Completed: model.BoolPtr(!completed)})
	return todo, true, err
}

// Delete removes todo id. The remote treats failures as success, so an
// unreachable remote still removes the entry locally.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.setError("")

	res, err := s.api.Delete(ctx, id)

	s.mu.Lock()
	if err != nil {
		s.errMsg = failureMessage("delete todo", err)
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	if idx := s.indexOf(id); idx >= 0 {
		s.todos = append(s.todos[:idx:idx], s.todos[idx+1:]...)
	}
	if res.Offline {
		s.offline = true
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetFilter selects the filtered view. The list itself is untouched.
func (s *Store) SetFilter(f model.Filter) {
	s.mu.Lock()
	s.filter = f
	s.mu.Unlock()
	s.notify()
}

// DismissError clears the error slot.
func (s *Store) DismissError() {
	s.setError("")
}

// Snapshot returns every piece of exposed state taken under one lock.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.copyTodos()
	return State{
		Todos:    model.FilterTodos(all, s.filter),
		All:      all,
		Loading:  s.loading > 0,
		Creating: s.creating > 0,
		Err:      s.errMsg,
		Filter:   s.filter,
		Stats:    model.ComputeStats(all),
		Offline:  s.offline,
	}
}

// Todos returns the filtered list.
func (s *Store) Todos() []model.Todo { return s.Snapshot().Todos }

// All returns the unfiltered list.
func (s *Store) All() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyTodos()
}

// Loading reports whether a refresh is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Creating reports whether a create is in flight.
func (s *Store) Creating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creating > 0
}

// Err returns the current error message, or "" when there is none.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Filter returns the active filter.
func (s *Store) Filter() model.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Stats returns statistics over the unfiltered list.
func (s *Store) Stats() model.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.ComputeStats(s.todos)
}

// Offline reports whether the last refresh, or a later write, was served
// by the local fallback.
func (s *Store) Offline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offline
}

// Subscribe returns a channel that receives a value after state changes.
// Notifications coalesce: a slow reader sees one pending signal, not a
// backlog. Call the returned func to stop receiving.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (s *Store) setError(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
	s.notify()
}

// markOffline records a write served by the fallback. Caller holds mu.
func (s *Store) markOffline(op string) {
	s.offline = true
	s.errMsg = fmt.Sprintf("Could not %s on the server; the change was kept locally", op)
}

// indexOf returns the position of id in the list or -1. Caller holds mu.
func (s *Store) indexOf(id int64) int {
	for i, t := range s.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// freshID returns a local id not used by any entry. Caller holds mu.
func (s *Store) freshID() int64 {
	for {
		id := s.newID()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

// uniqueByID drops later entries that repeat an id. Caller holds mu.
func (s *Store) uniqueByID(todos []model.Todo) []model.Todo {
	seen := make(map[int64]struct{}, len(todos))
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if _, dup := seen[t.ID]; dup {
			s.logger.Warn("duplicate_todo_id_in_list", zap.Int64("id", t.ID))
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

// copyTodos returns a copy of the list. Caller holds mu.
func (s *Store) copyTodos() []model.Todo {
	out := make([]model.Todo, len(s.todos))
	copy(out, s.todos)
	return out
}

// failureMessage renders err for the error banner.
func failureMessage(op string, err error) string {
	if errors.Is(err, model.ErrEmptyTitle) {
		return "Title is required"
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}
