package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/StreamShelf/internal/config"
	mcpserver "github.com/vadimtrunov/StreamShelf/internal/mcp"
)

// newMCPServeCmd returns the hidden "mcp-serve" subcommand.
// It starts an MCP server over stdin/stdout so MCP clients can query the catalog.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp-serve",
		Short:  "Start MCP server over stdio",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			// stdout carries the protocol; logs go to stderr.
			logger := config.SetupLogger(cfg.App.LogLevel, os.Stderr)
			src, err := initSource(cfg, false, logger)
			if err != nil {
				return err
			}

			myList, err := loadMyList()
			if err != nil {
				return err
			}

			srv := mcpserver.NewServer(mcpserver.Deps{Source: src, MyList: myList}, version, logger)
			return srv.ServeStdio(cmd.Context())
		},
	}
}
