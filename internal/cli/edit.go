package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-sync/internal/model"
)

// NewEditCmd creates the edit command
func NewEditCmd(o *options) *cobra.Command {
	var (
		title     string
		completed bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a todo's title or completion",
		Long:  "Change a todo. With both --title and --completed the todo is replaced in full (PUT); with one of them only that field is sent (PATCH).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var patch model.TodoPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("completed") {
				patch.Completed = &completed
			}
			if patch.IsEmpty() {
				return errors.New("nothing to change: pass --title and/or --completed")
			}

			s, err := o.newSession()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.store.Activate(cmd.Context()); err != nil {
				return err
			}
			if !containsID(s.store.All(), id) {
				return fmt.Errorf("todo %d not found", id)
			}

			var todo model.Todo
			if patch.Title != nil && patch.Completed != nil {
				todo, err = s.store.Replace(cmd.Context(), model.Todo{ID: id, Title: title, Completed: completed})
			} else {
				todo, err = s.store.Update(cmd.Context(), id, patch)
			}
			return writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), todo, err)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().BoolVar(&completed, "completed", false, "new completion state")
	return cmd
}

func containsID(todos []model.Todo, id int64) bool {
	for _, t := range todos {
		if t.ID == id {
			return true
		}
	}
	return false
}
