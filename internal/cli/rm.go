package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRmCmd creates the rm command
func NewRmCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
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

			if err := s.store.Delete(cmd.Context(), id); err != nil {
				return err
			}
			if s.store.Offline() {
				fmt.Fprintln(cmd.ErrOrStderr(), offlineNotice)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted todo %d\n", id)
			return nil
		},
	}
}
