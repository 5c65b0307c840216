package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/StreamShelf/internal/api"
	"github.com/vadimtrunov/StreamShelf/internal/config"
)

// newServeCmd returns the "serve" subcommand for running the JSON API.
func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the catalog JSON API",
		Long:  "Serve the catalog over HTTP. The port comes from --port, then server.port, then 8080.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return cmd
}

// runServe starts the API server and blocks until SIGINT/SIGTERM.
func runServe(port int) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger := config.SetupLogger(cfg.App.LogLevel, os.Stderr)
	src, err := initSource(cfg, false, logger)
	if err != nil {
		return err
	}

	myList, err := loadMyList()
	if err != nil {
		return err
	}

	if port == 0 {
		port = 8080
		if cfg.Server != nil {
			port = cfg.Server.Port
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return api.NewServer(port, src, myList, logger).Start(ctx)
}
