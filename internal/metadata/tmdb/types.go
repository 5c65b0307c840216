package tmdb

import (
	"errors"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// pageResponse is the TMDb paginated listing/search response.
type pageResponse struct {
	Page         int                `json:"page"`
	Results      []core.CatalogItem `json:"results"`
	TotalPages   int                `json:"total_pages"`
	TotalResults int                `json:"total_results"`
}

func (r *pageResponse) validate() error {
	if r.Page < 1 {
		return errors.New("missing page number")
	}
	if r.Results == nil {
		return errors.New("missing results")
	}
	return nil
}

func (r *pageResponse) toPage() *core.CatalogPage {
	return &core.CatalogPage{
		Page:         r.Page,
		Results:      r.Results,
		TotalPages:   r.TotalPages,
		TotalResults: r.TotalResults,
	}
}

// movieDetails is the /movie/{id} response. Details carry full genre
// objects instead of genre_ids.
type movieDetails struct {
	core.CatalogItem
	Genres []core.Genre `json:"genres"`
}

func (d *movieDetails) toItem() *core.CatalogItem {
	item := d.CatalogItem
	if len(item.GenreIDs) == 0 && len(d.Genres) > 0 {
		item.GenreIDs = make([]int, 0, len(d.Genres))
		for _, g := range d.Genres {
			item.GenreIDs = append(item.GenreIDs, g.ID)
		}
	}
	return &item
}

// genreListResponse wraps the /genre/movie/list response.
type genreListResponse struct {
	Genres []core.Genre `json:"genres"`
}

// errorResponse is the TMDb error body.
type errorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
