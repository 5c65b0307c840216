// Package browse holds the client-side browsing state shared by every
// frontend: local query filtering, search results guarded by generation
// tokens, and the currently selected item.
package browse

import (
	"fmt"
	"strings"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// NormalizeQuery trims a user-entered query. A blank query is rejected with
// core.ErrInvalidArgument; callers guard with it before filtering or searching.
func NormalizeQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", fmt.Errorf("empty search query: %w", core.ErrInvalidArgument)
	}
	return q, nil
}

// FilterByQuery returns the items whose title or overview contains query,
// ignoring case, in their original order. The result is never nil.
// A blank query matches nothing.
func FilterByQuery(items []core.CatalogItem, query string) []core.CatalogItem {
	result := []core.CatalogItem{}
	if strings.TrimSpace(query) == "" {
		return result
	}

	needle := strings.ToLower(query)
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Title), needle) ||
			strings.Contains(strings.ToLower(item.Overview), needle) {
			result = append(result, item)
		}
	}
	return result
}
