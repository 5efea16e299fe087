// Package cli holds the cobra commands behind the todo binary.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/logger"
	"github.com/nhle/todo-sync/internal/model"
	"github.com/nhle/todo-sync/internal/remote"
	"github.com/nhle/todo-sync/internal/todos"
)

// options holds the global flags shared by every command.
type options struct {
	configPath string
	baseURL    string
	debug      bool
}

// NewRootCmd builds the todo command tree. Running it without a
// subcommand starts the terminal UI.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "todo",
		Short:         "Manage a todo list kept on a remote REST collection",
		Long:          "A terminal client for a remote /todos collection. Changes are sent to the server immediately; when it cannot be reached, sample data and local ids keep the client usable.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&o.configPath, "config", model.DefaultConfigPath(), "path to the config file")
	root.PersistentFlags().StringVar(&o.baseURL, "base-url", "", "remote collection URL (overrides remote.base_url)")
	root.PersistentFlags().BoolVar(&o.debug, "debug", false, "enable debug logging")

	tui := NewTUICmd(o)
	root.RunE = tui.RunE

	root.AddCommand(tui)
	root.AddCommand(NewListCmd(o))
	root.AddCommand(NewAddCmd(o))
	root.AddCommand(NewToggleCmd(o))
	root.AddCommand(NewEditCmd(o))
	root.AddCommand(NewRmCmd(o))
	root.AddCommand(NewStatsCmd(o))
	root.AddCommand(NewShowCmd(o))
	root.AddCommand(NewServeCmd(o))
	root.AddCommand(NewConfigCmd(o))

	return root
}

// loadConfig reads the config file and applies flag overrides.
func (o *options) loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.baseURL != "" {
		cfg.Remote.BaseURL = o.baseURL
	}
	return cfg, nil
}

// cliLogger logs to stderr, quietly unless --debug is set.
func (o *options) cliLogger() (*zap.Logger, error) {
	return logger.NewDevelopmentLogger(logger.Options{Level: "warn", Debug: o.debug})
}

// session is what the one-shot commands work with.
type session struct {
	cfg    *model.AppConfig
	logger *zap.Logger
	api    *remote.API
	store  *todos.Store
}

func (o *options) newSession() (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := o.cliLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	api := remote.NewAPIFromConfig(cfg.Remote, log)
	return &session{
		cfg:    cfg,
		logger: log,
		api:    api,
		store:  todos.New(api, log),
	}, nil
}

func (s *session) close() {
	_ = logger.Sync(s.logger)
}

// parseID parses a todo id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid todo id %q", arg)
	}
	return id, nil
}
