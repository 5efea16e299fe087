package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/remote"
	"github.com/nhle/todo-sync/internal/ui/detail"
)

// commandDoneMsg is sent after a store command returns. The store has
// already published the resulting state; this only carries the outcome
// for logging.
type commandDoneMsg struct {
	op  string
	err error
}

// run wraps a store command in a tea.Cmd so it executes off the UI
// goroutine.
func run(op string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return commandDoneMsg{op: op, err: fn(context.Background())}
	}
}

func (m Model) activate() tea.Cmd {
	s := m.store
	return run("activate", s.Activate)
}

func (m Model) refresh() tea.Cmd {
	s := m.store
	return run("refresh", s.Refresh)
}

func (m Model) createTodo(title string, completed bool) tea.Cmd {
	s := m.store
	return run("create", func(ctx context.Context) error {
		_, err := s.Create(ctx, title, completed)
		return err
	})
}

func (m Model) replaceTodo(id int64, title string, completed bool) tea.Cmd {
	s := m.store
	return run("edit", func(ctx context.Context) error {
		_, err := s.Replace(ctx, model.Todo{ID: id, Title: title, Completed: completed})
		return err
	})
}

func (m Model) toggleTodo(id int64) tea.Cmd {
	s := m.store
	return run("toggle", func(ctx context.Context) error {
		_, _, err := s.ToggleCompletion(ctx, id)
		return err
	})
}

func (m Model) deleteTodo(id int64) tea.Cmd {
	s := m.store
	return run("delete", func(ctx context.Context) error {
		return s.Delete(ctx, id)
	})
}

// fetchTodo asks the server for its copy of todo id. It returns nil when
// no fetcher is configured.
func (m Model) fetchTodo(id int64) tea.Cmd {
	f := m.fetcher
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		res, err := f.Get(context.Background(), id)
		return detail.LoadedMsg{ID: id, Result: res, Err: err}
	}
}

// logResult records a finished command. Failures are already visible in
// the error banner.
func (m Model) logResult(msg commandDoneMsg) {
	switch {
	case msg.err == nil:
		m.logger.Debug("command_done", zap.String("op", msg.op))
	case errors.Is(msg.err, remote.ErrOffline):
		m.logger.Info("command_kept_locally", zap.String("op", msg.op), zap.Error(msg.err))
	default:
		m.logger.Warn("command_failed", zap.String("op", msg.op), zap.Error(msg.err))
	}
}
