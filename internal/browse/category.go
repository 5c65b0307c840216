package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// Category names one of the curated catalog listings.
type Category string

// Curated listings, in display order.
const (
	Popular    Category = "popular"
	TopRated   Category = "top_rated"
	NowPlaying Category = "now_playing"
	Upcoming   Category = "upcoming"
)

// Categories returns all listings in display order.
func Categories() []Category {
	return []Category{Popular, TopRated, NowPlaying, Upcoming}
}

// Title returns a human readable label.
func (c Category) Title() string {
	switch c {
	case Popular:
		return "Popular"
	case TopRated:
		return "Top Rated"
	case NowPlaying:
		return "Now Playing"
	case Upcoming:
		return "Upcoming"
	default:
		return string(c)
	}
}

// ParseCategory accepts "top_rated", "top-rated", "toprated" and any casing.
func ParseCategory(s string) (Category, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	for _, c := range Categories() {
		if strings.ReplaceAll(string(c), "_", "") == norm {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q: %w", s, core.ErrInvalidArgument)
}

// Fetch loads one page of the listing from src.
func (c Category) Fetch(ctx context.Context, src core.CatalogSource, page int) (*core.CatalogPage, error) {
	switch c {
	case Popular:
		return src.Popular(ctx, page)
	case TopRated:
		return src.TopRated(ctx, page)
	case NowPlaying:
		return src.NowPlaying(ctx, page)
	case Upcoming:
		return src.Upcoming(ctx, page)
	default:
		return nil, fmt.Errorf("unknown category %q: %w", string(c), core.ErrInvalidArgument)
	}
}
