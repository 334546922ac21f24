package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/watercolor/am"
	"github.com/teranos/watercolor/logger"
	"github.com/teranos/watercolor/server"
)

func newServeCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dissolution tools over MCP stdio",
		Long: `Start an MCP server on stdin/stdout exposing every dissolution operation
as a tool. Logs go to stderr.

With --watch (or server.watch = true) the engine is rebuilt whenever the
active am.toml changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, cfg, err := loadEngine(cmd)
			if err != nil {
				return err
			}
			log := logger.ComponentLogger("serve")

			srv := server.New(cfg.Server.Name, e, server.WithDefaultSteps(cfg.Trajectory.DefaultSteps))
			defer srv.Close()

			if watch || cfg.Server.Watch {
				path := am.ActiveConfigFile()
				if path == "" {
					log.Warnw("No config file found, config watching disabled")
				} else if err := srv.Watch(cmd.Context(), path); err != nil {
					log.Warnw("Failed to watch config, restart required for config changes", logger.FieldError, err)
				}
			}

			log.Infow("Serving MCP over stdio",
				"name", cfg.Server.Name,
				logger.FieldCount, len(srv.Tools()),
				"registry_version", e.Registry().Version())
			return srv.Serve()
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild the engine when the config file changes")
	return cmd
}
