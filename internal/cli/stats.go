package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := o.newSession()
			if err != nil {
				return err
			}
			defer s.close()

			if err := s.store.Activate(cmd.Context()); err != nil {
				return err
			}
			if s.store.Offline() {
				fmt.Fprintln(cmd.ErrOrStderr(), offlineNotice)
			}
			printStats(cmd.OutOrStdout(), s.store.Stats())
			return nil
		},
	}
}
