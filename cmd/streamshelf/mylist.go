package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/fixture"
)

// loadMyList returns the demo user's saved titles from the embedded catalog.
// The list is the same whichever catalog source is configured.
func loadMyList() (*browse.MyList, error) {
	lib, err := fixture.Load()
	if err != nil {
		return nil, fmt.Errorf("load my list: %w", err)
	}
	return lib.MyList(), nil
}

// newMyListCmd returns the "mylist" subcommand that prints the saved shelves
// or, given a query, the saved titles matching it.
func newMyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mylist [query...]",
		Short: "Show saved titles",
		Long:  "Show the saved shelves (Continue Watching, My Movies, My TV Shows), or search them.",
		Example: `  streamshelf mylist
  streamshelf mylist dark`,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := loadMyList()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprint(out, renderMyList(list))
				return nil
			}

			query := strings.Join(args, " ")
			results, err := list.Search(query)
			if err != nil {
				return fmt.Errorf("search query must not be blank")
			}
			fmt.Fprint(out, renderShelf(fmt.Sprintf("My List results for %q", strings.TrimSpace(query)), results))
			return nil
		},
	}
}

// newFeaturedCmd returns the "featured" subcommand that prints the featured title.
func newFeaturedCmd() *cobra.Command {
	var shows bool
	cmd := &cobra.Command{
		Use:   "featured",
		Short: "Show the featured title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, logger, err := setupSource(shows)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			item, err := browse.Featured(ctx, src)
			if err != nil {
				return err
			}
			genres, err := src.Genres(ctx)
			if err != nil {
				logger.Warn("failed to load genres", slog.String("error", err.Error()))
			}
			fmt.Fprint(cmd.OutOrStdout(), renderDetail(item, genres))
			return nil
		},
	}
	cmd.Flags().BoolVar(&shows, "shows", false, "feature a TV show (fixture catalog only)")
	return cmd
}
