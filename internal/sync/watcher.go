// Package sync bridges Todo Store change notifications into Bubble Tea
// messages.
package sync

import (
	gosync "sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todo-sync/internal/todos"
)

// StateChangedMsg is a tea.Msg carrying the store state after a change.
type StateChangedMsg struct {
	State todos.State
}

// Watcher listens for store changes on behalf of the UI.
type Watcher struct {
	store       *todos.Store
	changes     <-chan struct{}
	unsubscribe func()
	stopCh      chan struct{}
	stopOnce    gosync.Once
}

// NewWatcher subscribes to s. Call Stop to release the subscription.
func NewWatcher(s *todos.Store) *Watcher {
	ch, unsubscribe := s.Subscribe()
	return &Watcher{
		store:       s,
		changes:     ch,
		unsubscribe: unsubscribe,
		stopCh:      make(chan struct{}),
	}
}

// Current returns a tea.Cmd that reports the state right away, without
// waiting for a change.
func (w *Watcher) Current() tea.Cmd {
	return func() tea.Msg {
		return StateChangedMsg{State: w.store.Snapshot()}
	}
}

// WaitForNextChange returns a tea.Cmd that blocks until the store changes
// and then reports a fresh snapshot. Call it again after handling each
// StateChangedMsg to keep listening.
func (w *Watcher) WaitForNextChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-w.changes:
			return StateChangedMsg{State: w.store.Snapshot()}
		case <-w.stopCh:
			return nil
		}
	}
}

// Stop unsubscribes and releases any pending WaitForNextChange.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.unsubscribe()
		close(w.stopCh)
	})
}
