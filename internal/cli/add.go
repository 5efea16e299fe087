package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// NewAddCmd creates the add command
func NewAddCmd(o *options) *cobra.Command {
	var completed bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.newSession()
			if err != nil {
				return err
			}
			defer s.close()

			todo, err := s.store.Create(cmd.Context(), strings.Join(args, " "), completed)
			return writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), todo, err)
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "create the todo already completed")
	return cmd
}
