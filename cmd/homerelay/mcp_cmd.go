package main

import (
	"github.com/spf13/cobra"

	"github.com/homerelay/homerelay/internal/config"
	mcpserver "github.com/homerelay/homerelay/internal/mcp"
)

// newMCPServeCmd returns the "mcp-serve" subcommand.
// It starts an MCP server over stdin/stdout so LLM clients can browse
// sections and submit media requests as tools.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-serve",
		Short: "Start MCP server over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			logger := config.SetupLogger(cfg.App.LogLevel)

			deps := mcpserver.Deps{
				Loader: initLoader(cfg, logger),
				Media:  initMediaServer(cfg, logger),
			}

			srv := mcpserver.NewServer(deps, logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
