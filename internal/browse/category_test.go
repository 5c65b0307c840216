package browse

import (
	"context"
	"errors"
	"testing"

	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// listingSource records which listing was requested.
type listingSource struct {
	stubSource
	called string
	page   int
}

func (s *listingSource) record(name string, page int) (*core.CatalogPage, error) {
	s.called, s.page = name, page
	return pageOf(), nil
}

func (s *listingSource) Popular(_ context.Context, p int) (*core.CatalogPage, error) {
	return s.record("popular", p)
}

func (s *listingSource) TopRated(_ context.Context, p int) (*core.CatalogPage, error) {
	return s.record("top_rated", p)
}

func (s *listingSource) NowPlaying(_ context.Context, p int) (*core.CatalogPage, error) {
	return s.record("now_playing", p)
}

func (s *listingSource) Upcoming(_ context.Context, p int) (*core.CatalogPage, error) {
	return s.record("upcoming", p)
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Category
	}{
		{"popular", Popular},
		{"Popular", Popular},
		{"top_rated", TopRated},
		{"top-rated", TopRated},
		{"toprated", TopRated},
		{" NOW PLAYING ", NowPlaying},
		{"upcoming", Upcoming},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCategory(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseCategory("trending"); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCategory_Fetch(t *testing.T) {
	t.Parallel()

	for _, c := range Categories() {
		src := &listingSource{}
		if _, err := c.Fetch(context.Background(), src, 3); err != nil {
			t.Fatalf("%s: unexpected error: %v", c, err)
		}
		if src.called != string(c) || src.page != 3 {
			t.Errorf("%s: called %q page %d", c, src.called, src.page)
		}
	}

	if _, err := Category("bogus").Fetch(context.Background(), &listingSource{}, 1); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestCategory_Title(t *testing.T) {
	t.Parallel()

	if got := TopRated.Title(); got != "Top Rated" {
		t.Errorf("Title() = %q", got)
	}
	if got := Category("other").Title(); got != "other" {
		t.Errorf("Title() fallback = %q", got)
	}
}
