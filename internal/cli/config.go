package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-sync/internal/model"
)

// NewConfigCmd creates the config command group
func NewConfigCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}
	cmd.AddCommand(newConfigInitCmd(o))
	cmd.AddCommand(newConfigShowCmd(o))
	return cmd
}

func newConfigInitCmd(o *options) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(o.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", o.configPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("checking %s: %w", o.configPath, err)
			}

			cfg := model.DefaultAppConfig()
			if o.baseURL != "" {
				cfg.Remote.BaseURL = o.baseURL
			}
			if err := model.SaveConfig(o.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", o.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "config file:          %s\n", o.configPath)
			fmt.Fprintf(w, "remote.base_url:      %s\n", cfg.Remote.BaseURL)
			fmt.Fprintf(w, "remote.list_timeout:  %s\n", cfg.Remote.ListTimeout())
			fmt.Fprintf(w, "remote.request_timeout: %s\n", cfg.Remote.RequestTimeout())
			fmt.Fprintf(w, "server.addr:          %s\n", cfg.Server.Addr)
			fmt.Fprintf(w, "server.db_path:       %s\n", cfg.Server.DBPath)
			fmt.Fprintf(w, "server.prefix:        %s\n", cfg.Server.Prefix)
			fmt.Fprintf(w, "log.level:            %s\n", cfg.Log.Level)
			fmt.Fprintf(w, "log.file:             %s\n", cfg.Log.File)
			return nil
		},
	}
}
