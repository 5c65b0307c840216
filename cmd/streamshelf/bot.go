package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/StreamShelf/internal/config"
	"github.com/vadimtrunov/StreamShelf/internal/frontend/telegram"
)

// newBotCmd returns the "bot" subcommand for running the Telegram bot.
func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Start the Telegram bot",
		Long:  "Start the StreamShelf Telegram bot for browsing the catalog from Telegram.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBot()
		},
	}
}

// runBot initializes the catalog source and starts the Telegram bot.
func runBot() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	if cfg.Telegram == nil {
		return errors.New(
			"telegram configuration is required: set telegram.bot_token in config or STREAMSHELF_TELEGRAM_BOT_TOKEN env var",
		)
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

	bot, err := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.AllowedUserIDs, src, myList, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("telegram bot starting")
	return bot.Start(ctx)
}
