package core

import (
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogItem is a single movie or show record.
// PosterPath and BackdropPath are relative asset paths; empty means absent.
type CatalogItem struct {
	ID               int     `json:"id" yaml:"id"`
	Title            string  `json:"title" yaml:"title"`
	Overview         string  `json:"overview" yaml:"overview"`
	PosterPath       string  `json:"poster_path" yaml:"poster_path"`
	BackdropPath     string  `json:"backdrop_path" yaml:"backdrop_path"`
	ReleaseDate      string  `json:"release_date" yaml:"release_date"`
	VoteAverage      float64 `json:"vote_average" yaml:"vote_average"`
	VoteCount        int     `json:"vote_count" yaml:"vote_count"`
	GenreIDs         []int   `json:"genre_ids" yaml:"genre_ids"`
	Adult            bool    `json:"adult" yaml:"adult"`
	OriginalLanguage string  `json:"original_language" yaml:"original_language"`
	OriginalTitle    string  `json:"original_title" yaml:"original_title"`
	Popularity       float64 `json:"popularity" yaml:"popularity"`
	Video            bool    `json:"video" yaml:"video"`
}

// Rating returns the vote average rendered at one decimal place.
// The shortest decimal form of the value is rounded half away from zero,
// so 7.25 renders as "7.3" and 6.05 as "6.1" even though the nearest
// float64 to 6.05 lies just below it.
func (i CatalogItem) Rating() string {
	return decimal.NewFromFloat(i.VoteAverage).StringFixed(1)
}

// ReleaseYear returns the year part of ReleaseDate, or 0 if it cannot be parsed.
func (i CatalogItem) ReleaseYear() int {
	year, _, _ := strings.Cut(i.ReleaseDate, "-")
	if len(year) != 4 {
		return 0
	}
	n, err := strconv.Atoi(year)
	if err != nil {
		return 0
	}
	return n
}

// HasGenre reports whether the item is tagged with the given genre ID.
func (i CatalogItem) HasGenre(id int) bool {
	return slices.Contains(i.GenreIDs, id)
}

// PageSize is the number of items TMDb returns per page. The fixture
// catalog pages the same way.
const PageSize = 20

// CatalogPage is one page of a listing or search result.
// Results keep the order returned by the source.
type CatalogPage struct {
	Page         int           `json:"page"`
	Results      []CatalogItem `json:"results"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
}

// Genre is a catalog genre.
type Genre struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// GenreNames maps genre IDs to names, skipping IDs not present in genres.
func GenreNames(ids []int, genres []Genre) []string {
	byID := make(map[int]string, len(genres))
	for _, g := range genres {
		byID[g.ID] = g.Name
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
