package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/app"
	"github.com/nhle/todo-sync/internal/logger"
	"github.com/nhle/todo-sync/internal/remote"
	"github.com/nhle/todo-sync/internal/todos"
)

// NewTUICmd creates the tui command
func NewTUICmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}

			// Logs go to a file so they never draw over the UI.
			log, err := logger.NewProductionLogger(logger.Options{
				Level: cfg.Log.Level,
				Debug: o.debug,
				File:  cfg.Log.File,
			})
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync(log) }()

			log.Info("tui_starting", zap.String("base_url", cfg.Remote.BaseURL))

			api := remote.NewAPIFromConfig(cfg.Remote, log)
			store := todos.New(api, log)
			p := tea.NewProgram(
				app.New(store, log, cfg.Remote.BaseURL, app.WithFetcher(api)),
				tea.WithAltScreen(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("running terminal UI: %w", err)
			}
			return nil
		},
	}
}
