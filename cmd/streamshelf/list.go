package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/config"
	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// setupSource loads config, configures logging to stderr and builds the catalog source.
func setupSource(shows bool) (core.CatalogSource, *slog.Logger, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := config.SetupLogger(cfg.App.LogLevel, os.Stderr)
	src, err := initSource(cfg, shows, logger)
	if err != nil {
		return nil, nil, err
	}
	return src, logger, nil
}

func categoryNames() string {
	names := make([]string, 0, len(browse.Categories()))
	for _, c := range browse.Categories() {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// newListCmd returns the "list" subcommand that prints one page of a curated listing.
func newListCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "list <category>",
		Short: "List a curated category",
		Long:  "List one page of a curated category: " + categoryNames() + ".",
		Example: `  streamshelf list popular
  streamshelf list top-rated --page 2`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			names := make([]string, 0, len(browse.Categories()))
			for _, c := range browse.Categories() {
				names = append(names, string(c))
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := browse.ParseCategory(args[0])
			if err != nil {
				return fmt.Errorf("%w (expected one of: %s)", err, categoryNames())
			}
			if page < 1 {
				return fmt.Errorf("--page must be at least 1")
			}

			src, _, err := setupSource(false)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			result, err := category.Fetch(ctx, src, page)
			if err != nil {
				return fmt.Errorf("list %s: %w", category, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderPage(category.Title(), result))
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number")
	return cmd
}

// newShowCmd returns the "show" subcommand that prints the details of one item.
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Short:   "Show details for a catalog item",
		Example: `  streamshelf show 155`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid id %q: must be a positive integer", args[0])
			}

			src, logger, err := setupSource(false)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			item, err := src.Detail(ctx, id)
			if err != nil {
				return fmt.Errorf("show %d: %w", id, err)
			}

			genres, err := src.Genres(ctx)
			if err != nil {
				// Genre names are decoration; the detail is still useful without them.
				logger.Warn("failed to load genres", slog.String("error", err.Error()))
			}
			fmt.Fprint(cmd.OutOrStdout(), renderDetail(*item, genres))
			return nil
		},
	}
}

// newGenresCmd returns the "genres" subcommand that prints all genres.
func newGenresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, _, err := setupSource(false)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			genres, err := src.Genres(ctx)
			if err != nil {
				return fmt.Errorf("list genres: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, styleHeader.Render("Genres"))
			for _, g := range genres {
				fmt.Fprintf(out, "%6s  %s\n", styleDim.Render(strconv.Itoa(g.ID)), g.Name)
			}
			return nil
		},
	}
}
