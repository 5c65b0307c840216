package browse

import (
	"context"
	"fmt"
	"slices"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// Shelf is one titled row of a user's list.
type Shelf struct {
	Title string             `json:"title"`
	Items []core.CatalogItem `json:"items"`
}

// MyList is a user's saved titles grouped into shelves
// ("Continue Watching", "My Movies", "My TV Shows"). It is read-only.
type MyList struct {
	shelves []Shelf
}

// NewMyList builds a list from shelves in display order. Empty shelves are
// dropped and item slices are copied.
func NewMyList(shelves ...Shelf) *MyList {
	l := &MyList{}
	for _, s := range shelves {
		if len(s.Items) == 0 {
			continue
		}
		l.shelves = append(l.shelves, Shelf{Title: s.Title, Items: slices.Clone(s.Items)})
	}
	return l
}

// Shelves returns the non-empty shelves in display order.
func (l *MyList) Shelves() []Shelf {
	if l == nil {
		return []Shelf{}
	}
	out := make([]Shelf, len(l.shelves))
	for i, s := range l.shelves {
		out[i] = Shelf{Title: s.Title, Items: slices.Clone(s.Items)}
	}
	return out
}

// Empty reports whether the list holds no titles.
func (l *MyList) Empty() bool {
	return l == nil || len(l.shelves) == 0
}

// Items returns every title once, in shelf order. A title saved on two
// shelves keeps its first position.
func (l *MyList) Items() []core.CatalogItem {
	items := []core.CatalogItem{}
	if l == nil {
		return items
	}
	seen := make(map[int]bool)
	for _, s := range l.shelves {
		for _, it := range s.Items {
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			items = append(items, it)
		}
	}
	return items
}

// Search filters the list with the same rules as FilterByQuery.
// A blank query fails with core.ErrInvalidArgument.
func (l *MyList) Search(query string) ([]core.CatalogItem, error) {
	q, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}
	return FilterByQuery(l.Items(), q), nil
}

// Featured returns the highlighted title of a source: the first item of the
// popular listing, or the source's own pick when it has one.
// An empty catalog fails with core.ErrNotFound.
func Featured(ctx context.Context, src core.CatalogSource) (core.CatalogItem, error) {
	if f, ok := src.(interface {
		Featured() (core.CatalogItem, bool)
	}); ok {
		if item, ok := f.Featured(); ok {
			return item, nil
		}
		return core.CatalogItem{}, fmt.Errorf("featured title: %w", core.ErrNotFound)
	}

	page, err := src.Popular(ctx, 1)
	if err != nil {
		return core.CatalogItem{}, fmt.Errorf("featured title: %w", err)
	}
	if len(page.Results) == 0 {
		return core.CatalogItem{}, fmt.Errorf("featured title: %w", core.ErrNotFound)
	}
	return page.Results[0], nil
}
