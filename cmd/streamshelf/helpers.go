package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/config"
	"github.com/vadimtrunov/StreamShelf/internal/core"
	"github.com/vadimtrunov/StreamShelf/internal/fixture"
	"github.com/vadimtrunov/StreamShelf/internal/metadata/tmdb"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	styleRating  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow

	styleTitle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true) // white bold

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5")).
			MarginBottom(1)
)

// loadConfig loads and validates the configuration file.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// initSource creates the configured catalog source. shows selects the TV
// fixture, which only the fixture source provides.
func initSource(cfg *config.Config, shows bool, logger *slog.Logger) (core.CatalogSource, error) {
	switch cfg.Catalog.Source {
	case config.SourceFixture:
		lib, err := fixture.Load()
		if err != nil {
			return nil, fmt.Errorf("load fixture catalog: %w", err)
		}
		if shows {
			logger.Info("fixture catalog initialized", slog.Int("shows", len(lib.Shows)))
			return lib.ShowSource(), nil
		}
		logger.Info("fixture catalog initialized", slog.Int("movies", len(lib.Movies)))
		return lib.MovieSource(), nil

	case config.SourceTMDb:
		if shows {
			return nil, fmt.Errorf("tv shows are only available with catalog.source %q", config.SourceFixture)
		}
		client, err := tmdb.NewWithBaseURL(cfg.TMDb.APIKey, cfg.TMDb.BaseURL, logger)
		if err != nil {
			return nil, fmt.Errorf("create tmdb client: %w", err)
		}
		if cfg.TMDb.BaseURL != "" {
			logger.Info("TMDb client initialized", slog.String("url", sanitizeURL(cfg.TMDb.BaseURL)))
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported catalog source: %s", cfg.Catalog.Source)
	}
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

// itemLine renders one list row: "  1. The Dark Knight (2008)  ★ 9.0  #155".
func itemLine(n int, item core.CatalogItem) string {
	title := item.Title
	if year := item.ReleaseYear(); year > 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	return fmt.Sprintf("%3d. %s  %s  %s",
		n,
		styleTitle.Render(title),
		styleRating.Render("★ "+item.Rating()),
		styleDim.Render(fmt.Sprintf("#%d", item.ID)),
	)
}

// renderPage renders a listing or search page for terminal output.
func renderPage(heading string, page *core.CatalogPage) string {
	var sb strings.Builder
	sb.WriteString(styleHeader.Render(heading))
	sb.WriteString("\n")

	if len(page.Results) == 0 {
		sb.WriteString(styleDim.Render("No results."))
		sb.WriteString("\n")
		return sb.String()
	}

	offset := 0
	if page.Page > 1 {
		offset = (page.Page - 1) * core.PageSize
	}
	for i, item := range page.Results {
		sb.WriteString(itemLine(offset+i+1, item))
		sb.WriteString("\n")
	}
	sb.WriteString(styleDim.Render(fmt.Sprintf("page %d of %d · %d results", page.Page, page.TotalPages, page.TotalResults)))
	sb.WriteString("\n")
	return sb.String()
}

// renderDetail renders the full detail view of an item.
func renderDetail(item core.CatalogItem, genres []core.Genre) string {
	var sb strings.Builder
	title := item.Title
	if year := item.ReleaseYear(); year > 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	sb.WriteString(styleHeader.Render(title))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "%s  %s\n",
		styleRating.Render("★ "+item.Rating()),
		styleDim.Render(fmt.Sprintf("%d votes", item.VoteCount)),
	)
	if names := core.GenreNames(item.GenreIDs, genres); len(names) > 0 {
		sb.WriteString(styleInfo.Render(strings.Join(names, " · ")))
		sb.WriteString("\n")
	}
	if item.ReleaseDate != "" {
		sb.WriteString(styleDim.Render("Released " + item.ReleaseDate))
		sb.WriteString("\n")
	}
	if item.OriginalTitle != "" && item.OriginalTitle != item.Title {
		sb.WriteString(styleDim.Render("Original title: " + item.OriginalTitle))
		sb.WriteString("\n")
	}
	if overview := strings.TrimSpace(item.Overview); overview != "" {
		sb.WriteString("\n")
		sb.WriteString(overview)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(styleDim.Render("Poster:   " + tmdb.PosterURL(item.PosterPath)))
	sb.WriteString("\n")
	sb.WriteString(styleDim.Render("Backdrop: " + tmdb.BackdropURL(item.BackdropPath)))
	sb.WriteString("\n")
	return sb.String()
}

// renderShelf renders a titled, numbered item list.
func renderShelf(heading string, items []core.CatalogItem) string {
	var sb strings.Builder
	sb.WriteString(styleHeader.Render(heading))
	sb.WriteString("\n")
	if len(items) == 0 {
		sb.WriteString(styleDim.Render("No results."))
		sb.WriteString("\n")
		return sb.String()
	}
	for i, item := range items {
		sb.WriteString(itemLine(i+1, item))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderMyList renders every saved shelf in order.
func renderMyList(list *browse.MyList) string {
	if list.Empty() {
		return styleHeader.Render("My List") + "\n" +
			styleDim.Render("Your list is empty. Saved movies and shows appear here.") + "\n"
	}
	shelves := list.Shelves()
	parts := make([]string, 0, len(shelves))
	for _, s := range shelves {
		parts = append(parts, renderShelf(s.Title, s.Items))
	}
	return strings.Join(parts, "\n")
}
