package browse

import (
	"context"
	"slices"
	"sync"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// Token identifies one search invocation. Tokens increase strictly.
type Token uint64

// SearchState holds the active query and its results.
// Every Begin issues a new token and cancels the previous in-flight search;
// Commit only accepts results for the latest token, so a slow stale response
// can never overwrite a newer one.
type SearchState struct {
	mu         sync.Mutex
	generation Token
	query      string
	results    []core.CatalogItem
	cancel     context.CancelFunc
}

// Begin starts a search for query. The returned context is canceled when a
// newer search begins or the state is reset.
func (s *SearchState) Begin(ctx context.Context, query string) (context.Context, Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	searchCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.generation++
	s.query = query
	return searchCtx, s.generation
}

// IsCurrent reports whether tok is the latest issued token.
func (s *SearchState) IsCurrent(tok Token) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tok == s.generation
}

// Commit stores results for tok. It returns false, leaving the state
// untouched, when tok has been superseded.
func (s *SearchState) Commit(tok Token, results []core.CatalogItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok != s.generation {
		return false
	}
	s.results = slices.Clone(results)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// Finish releases the context of tok's search without storing results
// (used when the search failed).
func (s *SearchState) Finish(tok Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok == s.generation && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Reset clears the query and results and abandons any in-flight search.
func (s *SearchState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.query = ""
	s.results = nil
}

// Query returns the query of the latest search.
func (s *SearchState) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Results returns a copy of the committed results.
func (s *SearchState) Results() []core.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}
