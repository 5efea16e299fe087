package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/remote"
)

func printTodo(w io.Writer, t model.Todo) {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	fmt.Fprintf(w, "[%s] %4d  %s\n", mark, t.ID, t.Title)
}

func printStats(w io.Writer, st model.Stats) {
	fmt.Fprintf(w, "Total:      %d\n", st.Total)
	fmt.Fprintf(w, "Completed:  %d\n", st.Completed)
	fmt.Fprintf(w, "Pending:    %d\n", st.Pending)
	fmt.Fprintf(w, "Completion: %d%%\n", st.CompletionRate)
}

// offlineNotice is printed when data came from the local fallback.
const offlineNotice = "Warning: the todo server could not be reached; showing offline data."

// writeResult prints todo and converts an offline write into a command
// error. A one-shot process keeps nothing once it exits, so a change
// the server never saw is reported as a failure.
func writeResult(w, errW io.Writer, todo model.Todo, err error) error {
	switch {
	case err == nil:
		printTodo(w, todo)
		return nil
	case errors.Is(err, remote.ErrOffline):
		printTodo(w, todo)
		fmt.Fprintln(errW, offlineNotice)
		return fmt.Errorf("change not saved: %w", err)
	default:
		return err
	}
}
