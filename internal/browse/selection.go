package browse

import (
	"sync"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// SelectionState is the state of a Selection.
type SelectionState int

const (
	NoSelection SelectionState = iota
	Selected
)

func (s SelectionState) String() string {
	if s == Selected {
		return "selected"
	}
	return "none"
}

// Selection tracks the item shown in the detail view.
// Select and Clear are valid from any state; the last call wins.
type Selection struct {
	mu   sync.RWMutex
	item *core.CatalogItem
}

// Select makes item the current selection.
func (s *Selection) Select(item core.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.item = &item
}

// Clear drops the current selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.item = nil
}

// Current returns the selected item and whether there is one.
func (s *Selection) Current() (core.CatalogItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.item == nil {
		return core.CatalogItem{}, false
	}
	return *s.item, true
}

// State reports NoSelection or Selected.
func (s *Selection) State() SelectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.item == nil {
		return NoSelection
	}
	return Selected
}
