package browse

import (
	"sync"
	"testing"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

func TestSelection_Transitions(t *testing.T) {
	t.Parallel()

	a := core.CatalogItem{ID: 1, Title: "A"}
	b := core.CatalogItem{ID: 2, Title: "B"}

	var s Selection
	if s.State() != NoSelection {
		t.Fatalf("initial state = %v, want none", s.State())
	}

	s.Select(a)
	s.Select(b)
	if got, ok := s.Current(); !ok || got.ID != b.ID {
		t.Errorf("after select(A), select(B): current = %+v, %v", got, ok)
	}

	s.Clear()
	if s.State() != NoSelection {
		t.Errorf("after clear: state = %v, want none", s.State())
	}
	if _, ok := s.Current(); ok {
		t.Error("expected no current item after clear")
	}
}

func TestSelection_Idempotent(t *testing.T) {
	t.Parallel()

	a := core.CatalogItem{ID: 1, Title: "A"}

	var s Selection
	s.Select(a)
	s.Select(a)
	if got, ok := s.Current(); !ok || got.ID != a.ID || s.State() != Selected {
		t.Errorf("select(A) twice: current = %+v, %v, state %v", got, ok, s.State())
	}

	s.Clear()
	s.Clear()
	if s.State() != NoSelection {
		t.Errorf("clear twice: state = %v", s.State())
	}
}

func TestSelection_CopiesItem(t *testing.T) {
	t.Parallel()

	item := core.CatalogItem{ID: 1, Title: "Original"}
	var s Selection
	s.Select(item)
	item.Title = "Mutated"

	if got, _ := s.Current(); got.Title != "Original" {
		t.Errorf("selection aliased caller value: %q", got.Title)
	}
}

func TestSelection_Concurrent(t *testing.T) {
	t.Parallel()

	var s Selection
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			s.Select(core.CatalogItem{ID: id})
			_, _ = s.Current()
			if id%2 == 0 {
				s.Clear()
			}
		}(i)
	}
	wg.Wait()

	s.Select(core.CatalogItem{ID: 99})
	if got, ok := s.Current(); !ok || got.ID != 99 {
		t.Errorf("last write should win, got %+v, %v", got, ok)
	}
}

func TestSelectionState_String(t *testing.T) {
	t.Parallel()

	if NoSelection.String() != "none" || Selected.String() != "selected" {
		t.Errorf("unexpected names: %q, %q", NoSelection, Selected)
	}
}
