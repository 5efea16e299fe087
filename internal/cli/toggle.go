package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewToggleCmd creates the toggle command
func NewToggleCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a todo between completed and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
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
			todo, found, err := s.store.ToggleCompletion(cmd.Context(), id)
			if !found {
				return fmt.Errorf("todo %d not found", id)
			}
			return writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), todo, err)
		},
	}
}
