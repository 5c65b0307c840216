package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/core"
	"github.com/vadimtrunov/StreamShelf/internal/metadata/tmdb"
)

type handler struct {
	source core.CatalogSource
	myList *browse.MyList
}

// itemResponse is a catalog item with resolved image URLs and display rating.
type itemResponse struct {
	core.CatalogItem
	PosterURL   string `json:"poster_url"`
	BackdropURL string `json:"backdrop_url"`
	Rating      string `json:"rating"`
	Year        int    `json:"year,omitempty"`
}

type pageResponse struct {
	Page         int            `json:"page"`
	Results      []itemResponse `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type shelfResponse struct {
	Title string         `json:"title"`
	Items []itemResponse `json:"items"`
}

type myListResponse struct {
	Shelves []shelfResponse `json:"shelves"`
}

type myListSearchResponse struct {
	Query   string         `json:"query"`
	Results []itemResponse `json:"results"`
}

type imageResponse struct {
	URL string `json:"url"`
}

func newItemResponse(item core.CatalogItem) itemResponse {
	return itemResponse{
		CatalogItem: item,
		PosterURL:   tmdb.PosterURL(item.PosterPath),
		BackdropURL: tmdb.BackdropURL(item.BackdropPath),
		Rating:      item.Rating(),
		Year:        item.ReleaseYear(),
	}
}

func newItemResponses(items []core.CatalogItem) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, newItemResponse(item))
	}
	return out
}

func newPageResponse(p *core.CatalogPage) pageResponse {
	return pageResponse{
		Page:         p.Page,
		Results:      newItemResponses(p.Results),
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
	}
}

// parsePage reads the optional page query parameter; absent means 1.
func parsePage(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("page must be a positive integer: %w", core.ErrInvalidArgument)
	}
	return page, nil
}

func (h *handler) listCategory(w http.ResponseWriter, r *http.Request) {
	category, err := browse.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	result, err := category.Fetch(r.Context(), h.source, page)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newPageResponse(result))
}

func (h *handler) search(w http.ResponseWriter, r *http.Request) {
	query, err := browse.NormalizeQuery(r.URL.Query().Get("query"))
	if err != nil {
		writeCatalogError(w, r, fmt.Errorf("query parameter is required: %w", err))
		return
	}
	page, err := parsePage(r)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}

	result, err := h.source.Search(r.Context(), query, page)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newPageResponse(result))
}

func (h *handler) detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeCatalogError(w, r, fmt.Errorf("id must be a positive integer: %w", core.ErrInvalidArgument))
		return
	}

	item, err := h.source.Detail(r.Context(), id)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newItemResponse(*item))
}

func (h *handler) genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.source.Genres(r.Context())
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	if genres == nil {
		genres = []core.Genre{}
	}
	writeJSON(w, r, http.StatusOK, map[string][]core.Genre{"genres": genres})
}

func (h *handler) featured(w http.ResponseWriter, r *http.Request) {
	item, err := browse.Featured(r.Context(), h.source)
	if err != nil {
		writeCatalogError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newItemResponse(item))
}

// myListItems returns the saved shelves, or the matching titles when a query is given.
func (h *handler) myListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("query") {
		results, err := h.myList.Search(q.Get("query"))
		if err != nil {
			writeCatalogError(w, r, fmt.Errorf("query must not be blank: %w", err))
			return
		}
		writeJSON(w, r, http.StatusOK, myListSearchResponse{
			Query:   strings.TrimSpace(q.Get("query")),
			Results: newItemResponses(results),
		})
		return
	}

	shelves := h.myList.Shelves()
	resp := myListResponse{Shelves: make([]shelfResponse, 0, len(shelves))}
	for _, s := range shelves {
		resp.Shelves = append(resp.Shelves, shelfResponse{Title: s.Title, Items: newItemResponses(s.Items)})
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (h *handler) imageURL(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	writeJSON(w, r, http.StatusOK, imageResponse{URL: tmdb.ImageURL(q.Get("path"), q.Get("size"))})
}
