package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/todo-sync/internal/logger"
	"github.com/nhle/todo-sync/internal/remote"
	"github.com/nhle/todo-sync/internal/server"
)

// NewServeCmd creates the serve command
func NewServeCmd(o *options) *cobra.Command {
	var addr, dbPath, prefix string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a reference todo server",
		Long:  "Serve the /todos collection from SQLite. An empty database is seeded with the sample todos.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("db") {
				cfg.Server.DBPath = dbPath
			}
			if cmd.Flags().Changed("prefix") {
				cfg.Server.Prefix = prefix
			}

			log, err := logger.NewProductionLogger(logger.Options{Level: cfg.Log.Level, Debug: o.debug})
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() { _ = logger.Sync(log) }()

			st, err := server.OpenStore(cmd.Context(), cfg.Server.DBPath, remote.SampleTodos, log)
			if err != nil {
				return err
			}
			defer func() {
				if err := st.Close(); err != nil {
					log.Warn("store_close_failed", zap.Error(err))
				}
			}()

			srv := server.New(st, log, server.WithPrefix(cfg.Server.Prefix))
			return srv.ListenAndServe(cmd.Context(), cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path, or :memory: (default from server.db_path)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "collection path (default from server.prefix)")
	return cmd
}
