package browse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// ErrSuperseded is returned by Session.Search when a newer search started
// before this one completed. Its results were discarded.
var ErrSuperseded = errors.New("search superseded by a newer query")

// Session is the browsing state of one consumer (a terminal, a chat):
// the active search and the selected item.
type Session struct {
	source    core.CatalogSource
	search    SearchState
	selection Selection
	logger    *slog.Logger
}

// NewSession creates a session reading from source.
func NewSession(source core.CatalogSource, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{source: source, logger: logger}
}

// Source returns the catalog source backing the session.
func (s *Session) Source() core.CatalogSource { return s.source }

// Search runs a remote search and stores the first page of results.
// Zero results is a success. If a newer search began while this one was in
// flight, the response is dropped and ErrSuperseded is returned.
func (s *Session) Search(ctx context.Context, query string) ([]core.CatalogItem, error) {
	q, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	searchCtx, tok := s.search.Begin(ctx, q)
	page, err := s.source.Search(searchCtx, q, 1)
	if !s.search.IsCurrent(tok) {
		s.logger.Debug("discarding stale search response",
			slog.String("query", q),
			slog.Uint64("token", uint64(tok)),
		)
		return nil, ErrSuperseded
	}
	if err != nil {
		s.search.Finish(tok)
		return nil, fmt.Errorf("search %q: %w", q, err)
	}
	if !s.search.Commit(tok, page.Results) {
		return nil, ErrSuperseded
	}
	return page.Results, nil
}

// FilterLoaded filters already loaded items locally and stores the result.
func (s *Session) FilterLoaded(items []core.CatalogItem, query string) ([]core.CatalogItem, error) {
	q, err := NormalizeQuery(query)
	if err != nil {
		return nil, err
	}

	_, tok := s.search.Begin(context.Background(), q)
	results := FilterByQuery(items, q)
	s.search.Commit(tok, results)
	return results, nil
}

// Query returns the latest search query.
func (s *Session) Query() string { return s.search.Query() }

// Results returns the committed search results.
func (s *Session) Results() []core.CatalogItem { return s.search.Results() }

// ResetSearch clears the query and results.
func (s *Session) ResetSearch() { s.search.Reset() }

// Select makes item the detail-view item.
func (s *Session) Select(item core.CatalogItem) { s.selection.Select(item) }

// SelectByID fetches the item from the source and selects it.
func (s *Session) SelectByID(ctx context.Context, id int) (core.CatalogItem, error) {
	item, err := s.source.Detail(ctx, id)
	if err != nil {
		return core.CatalogItem{}, err
	}
	s.selection.Select(*item)
	return *item, nil
}

// Clear drops the selection.
func (s *Session) Clear() { s.selection.Clear() }

// Selected returns the selected item, if any.
func (s *Session) Selected() (core.CatalogItem, bool) { return s.selection.Current() }

// SelectionState reports whether an item is selected.
func (s *Session) SelectionState() SelectionState { return s.selection.State() }
