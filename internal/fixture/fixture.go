// Package fixture provides an embedded demo catalog that implements
// core.CatalogSource without any network access.
package fixture

import (
	"cmp"
	"context"
	_ "embed"
	"fmt"
	"slices"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/core"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Library is the parsed demo catalog.
type Library struct {
	Genres []core.Genre        `yaml:"genres"`
	Movies []core.CatalogItem `yaml:"movies"`
	Shows  []core.CatalogItem `yaml:"shows"`
	Saved  SavedIDs           `yaml:"my_list"`
}

// SavedIDs lists the demo user's saved titles by item ID.
type SavedIDs struct {
	ContinueWatching []int `yaml:"continue_watching"`
	Movies           []int `yaml:"movies"`
	Shows            []int `yaml:"shows"`
}

// Load parses the embedded demo catalog.
func Load() (*Library, error) {
	return Parse(catalogYAML)
}

// Parse parses a catalog document and checks that item IDs are unique.
func Parse(data []byte) (*Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse fixture catalog: %w", err)
	}

	seen := make(map[int]bool, len(lib.Movies)+len(lib.Shows))
	for _, item := range slices.Concat(lib.Movies, lib.Shows) {
		if item.ID <= 0 {
			return nil, fmt.Errorf("fixture item %q: id must be positive", item.Title)
		}
		if seen[item.ID] {
			return nil, fmt.Errorf("fixture item %q: duplicate id %d", item.Title, item.ID)
		}
		seen[item.ID] = true
	}

	saved := slices.Concat(lib.Saved.ContinueWatching, lib.Saved.Movies, lib.Saved.Shows)
	for _, id := range saved {
		if !seen[id] {
			return nil, fmt.Errorf("my_list: unknown item id %d", id)
		}
	}
	return &lib, nil
}

// MyList returns the demo user's saved titles as shelves.
func (l *Library) MyList() *browse.MyList {
	byID := make(map[int]core.CatalogItem, len(l.Movies)+len(l.Shows))
	for _, item := range slices.Concat(l.Movies, l.Shows) {
		byID[item.ID] = item
	}
	resolve := func(ids []int) []core.CatalogItem {
		items := make([]core.CatalogItem, 0, len(ids))
		for _, id := range ids {
			if item, ok := byID[id]; ok {
				items = append(items, item)
			}
		}
		return items
	}
	return browse.NewMyList(
		browse.Shelf{Title: "Continue Watching", Items: resolve(l.Saved.ContinueWatching)},
		browse.Shelf{Title: "My Movies", Items: resolve(l.Saved.Movies)},
		browse.Shelf{Title: "My TV Shows", Items: resolve(l.Saved.Shows)},
	)
}

// MovieSource returns a source over the demo movies.
func (l *Library) MovieSource() *Source {
	return NewSource("fixture", l.Movies, l.Genres)
}

// ShowSource returns a source over the demo TV shows.
func (l *Library) ShowSource() *Source {
	return NewSource("fixture-shows", l.Shows, l.Genres)
}

// Source serves a fixed item list through the core.CatalogSource contract.
type Source struct {
	name   string
	items  []core.CatalogItem
	genres []core.Genre
	now    func() time.Time
}

var _ core.CatalogSource = (*Source)(nil)

// NewSource creates a source over items. The slices are copied.
func NewSource(name string, items []core.CatalogItem, genres []core.Genre) *Source {
	return &Source{
		name:   name,
		items:  slices.Clone(items),
		genres: slices.Clone(genres),
		now:    time.Now,
	}
}

// WithClock sets the clock used to split released and upcoming items.
func (s *Source) WithClock(now func() time.Time) *Source {
	s.now = now
	return s
}

// Name returns the source name.
func (s *Source) Name() string { return s.name }

// Featured returns the first item in catalog order.
func (s *Source) Featured() (core.CatalogItem, bool) {
	if len(s.items) == 0 {
		return core.CatalogItem{}, false
	}
	return s.items[0], true
}

// Items returns a copy of all items in catalog order.
func (s *Source) Items() []core.CatalogItem { return slices.Clone(s.items) }

// Popular lists items by popularity, highest first.
func (s *Source) Popular(_ context.Context, page int) (*core.CatalogPage, error) {
	items := slices.Clone(s.items)
	slices.SortStableFunc(items, func(a, b core.CatalogItem) int {
		return cmp.Compare(b.Popularity, a.Popularity)
	})
	return paginate(items, page), nil
}

// TopRated lists items by vote average, then vote count, highest first.
func (s *Source) TopRated(_ context.Context, page int) (*core.CatalogPage, error) {
	items := slices.Clone(s.items)
	slices.SortStableFunc(items, func(a, b core.CatalogItem) int {
		return cmp.Or(
			cmp.Compare(b.VoteAverage, a.VoteAverage),
			cmp.Compare(b.VoteCount, a.VoteCount),
		)
	})
	return paginate(items, page), nil
}

// NowPlaying lists released items, newest first.
func (s *Source) NowPlaying(_ context.Context, page int) (*core.CatalogPage, error) {
	today := s.today()
	items := slices.DeleteFunc(slices.Clone(s.items), func(it core.CatalogItem) bool {
		return it.ReleaseDate == "" || it.ReleaseDate > today
	})
	slices.SortStableFunc(items, func(a, b core.CatalogItem) int {
		return cmp.Compare(b.ReleaseDate, a.ReleaseDate)
	})
	return paginate(items, page), nil
}

// Upcoming lists items released after today, soonest first.
func (s *Source) Upcoming(_ context.Context, page int) (*core.CatalogPage, error) {
	today := s.today()
	items := slices.DeleteFunc(slices.Clone(s.items), func(it core.CatalogItem) bool {
		return it.ReleaseDate <= today
	})
	slices.SortStableFunc(items, func(a, b core.CatalogItem) int {
		return cmp.Compare(a.ReleaseDate, b.ReleaseDate)
	})
	return paginate(items, page), nil
}

// Search filters items by title or overview, keeping catalog order.
func (s *Source) Search(_ context.Context, query string, page int) (*core.CatalogPage, error) {
	q, err := browse.NormalizeQuery(query)
	if err != nil {
		return nil, fmt.Errorf("search fixture: %w", err)
	}
	return paginate(browse.FilterByQuery(s.items, q), page), nil
}

// Detail returns the item with the given ID.
func (s *Source) Detail(_ context.Context, id int) (*core.CatalogItem, error) {
	for _, item := range s.items {
		if item.ID == id {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("fixture item %d: %w", id, core.ErrNotFound)
}

// Genres returns the genre list.
func (s *Source) Genres(_ context.Context) ([]core.Genre, error) {
	return slices.Clone(s.genres), nil
}

func (s *Source) today() string {
	return s.now().Format(time.DateOnly)
}

// paginate returns the requested page of items. Pages past the end are empty.
func paginate(items []core.CatalogItem, page int) *core.CatalogPage {
	if page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := (total + core.PageSize - 1) / core.PageSize

	start := min((page-1)*core.PageSize, total)
	end := min(start+core.PageSize, total)

	results := make([]core.CatalogItem, end-start)
	copy(results, items[start:end])

	return &core.CatalogPage{
		Page:         page,
		Results:      results,
		TotalPages:   totalPages,
		TotalResults: total,
	}
}
