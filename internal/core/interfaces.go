package core

import "context"

// CatalogSource defines the data-access contract for a movie/show catalog
// (the remote TMDb client or the embedded fixture catalog).
// A page below 1 is treated as the first page.
type CatalogSource interface {
	// Popular lists the most popular items
	Popular(ctx context.Context, page int) (*CatalogPage, error)

	// TopRated lists the highest rated items
	TopRated(ctx context.Context, page int) (*CatalogPage, error)

	// NowPlaying lists items currently in release
	NowPlaying(ctx context.Context, page int) (*CatalogPage, error)

	// Upcoming lists items not yet released
	Upcoming(ctx context.Context, page int) (*CatalogPage, error)

	// Search finds items matching a free-text query
	Search(ctx context.Context, query string, page int) (*CatalogPage, error)

	// Detail retrieves a single item by ID
	Detail(ctx context.Context, id int) (*CatalogItem, error)

	// Genres lists the known genres
	Genres(ctx context.Context) ([]Genre, error)

	// Name returns the source name (e.g., "tmdb", "fixture")
	Name() string
}

// Frontend defines the interface for long-running consumer surfaces (HTTP API, Telegram)
type Frontend interface {
	// Start runs the frontend until ctx is canceled
	Start(ctx context.Context) error

	// Name returns the frontend name (e.g., "api", "telegram")
	Name() string
}
