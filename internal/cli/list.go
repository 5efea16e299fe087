package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-sync/internal/model"
)

// NewListCmd creates the list command
func NewListCmd(o *options) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return err
			}

			s, err := o.newSession()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.store.Activate(cmd.Context()); err != nil {
				return err
			}
			s.store.SetFilter(f)

			state := s.store.Snapshot()
			if state.Offline {
				fmt.Fprintln(cmd.ErrOrStderr(), offlineNotice)
			}
			if len(state.Todos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No todos")
				return nil
			}
			for _, t := range state.Todos {
				printTodo(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", string(model.FilterAll), "all, completed or pending")
	return cmd
}
