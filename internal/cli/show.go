package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command
func NewShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Fetch a single todo from the server",
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

			res, err := s.api.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if res.Offline {
				fmt.Fprintln(cmd.ErrOrStderr(), offlineNotice)
			}
			printTodo(cmd.OutOrStdout(), res.Data)
			return nil
		},
	}
}
