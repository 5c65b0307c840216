package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "streamshelf",
		Short: "Browse the movie catalog from your terminal",
		Long: "StreamShelf browses a movie catalog backed by TMDb or a bundled fixture.\n" +
			"List curated categories, search titles and inspect details from the CLI,\n" +
			"an interactive TUI, a JSON API, a Telegram bot or an MCP tool server.",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/streamshelf.yaml", "path to configuration file")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newListCmd(),
		newShowCmd(),
		newGenresCmd(),
		newSearchCmd(),
		newMyListCmd(),
		newFeaturedCmd(),
		newBrowseCmd(),
		newServeCmd(),
		newBotCmd(),
		newMCPServeCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "StreamShelf v%s\n", version)
		},
	}
}
