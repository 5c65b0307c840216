package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vadimtrunov/StreamShelf/internal/core"
	"github.com/vadimtrunov/StreamShelf/internal/httpclient"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"

	// maxErrorBody bounds how much of an error response is read.
	maxErrorBody = 4 << 10
)

// Client is a TMDb API v3 client.
// It performs exactly one request per call: no caching, no retries.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	logger  *slog.Logger
}

var _ core.CatalogSource = (*Client)(nil)

// New creates a new TMDb client for the public API.
func New(apiKey string, logger *slog.Logger) (*Client, error) {
	return NewWithBaseURL(apiKey, defaultBaseURL, logger)
}

// NewWithBaseURL creates a TMDb client against a custom base URL (proxies, tests).
func NewWithBaseURL(apiKey, baseURL string, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("tmdb api key is required: %w", core.ErrInvalidArgument)
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpclient.New(httpclient.DefaultConfig(), logger),
		logger:  logger,
	}, nil
}

// Name returns the source name.
func (c *Client) Name() string { return "tmdb" }

// Popular lists popular movies.
func (c *Client) Popular(ctx context.Context, page int) (*core.CatalogPage, error) {
	return c.listing(ctx, "popular", "/movie/popular", page)
}

// TopRated lists top rated movies.
func (c *Client) TopRated(ctx context.Context, page int) (*core.CatalogPage, error) {
	return c.listing(ctx, "top rated", "/movie/top_rated", page)
}

// NowPlaying lists movies currently in theaters.
func (c *Client) NowPlaying(ctx context.Context, page int) (*core.CatalogPage, error) {
	return c.listing(ctx, "now playing", "/movie/now_playing", page)
}

// Upcoming lists upcoming movies.
func (c *Client) Upcoming(ctx context.Context, page int) (*core.CatalogPage, error) {
	return c.listing(ctx, "upcoming", "/movie/upcoming", page)
}

// Search searches movies by free text. The query must not be blank.
func (c *Client) Search(ctx context.Context, query string, page int) (*core.CatalogPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search movies: empty query: %w", core.ErrInvalidArgument)
	}

	params := url.Values{
		"query": {query},
		"page":  {strconv.Itoa(normalizePage(page))},
	}

	var resp pageResponse
	if err := c.get(ctx, "search", "/search/movie", params, &resp); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	if err := resp.validate(); err != nil {
		return nil, fmt.Errorf("search movies: %w", &core.DecodeError{Op: "search", Err: err})
	}
	return resp.toPage(), nil
}

// Detail retrieves a single movie by TMDb ID.
// A 404 from TMDb matches core.ErrNotFound.
func (c *Client) Detail(ctx context.Context, id int) (*core.CatalogItem, error) {
	if id <= 0 {
		return nil, fmt.Errorf("get movie %d: %w", id, core.ErrInvalidArgument)
	}

	var details movieDetails
	path := fmt.Sprintf("/movie/%d", id)
	if err := c.get(ctx, "detail", path, nil, &details); err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	if details.ID == 0 {
		return nil, fmt.Errorf("get movie %d: %w", id, &core.DecodeError{Op: "detail", Err: errors.New("missing id")})
	}
	return details.toItem(), nil
}

// Genres lists the movie genres in the order TMDb returns them.
func (c *Client) Genres(ctx context.Context) ([]core.Genre, error) {
	var resp genreListResponse
	if err := c.get(ctx, "genres", "/genre/movie/list", nil, &resp); err != nil {
		return nil, fmt.Errorf("get genres: %w", err)
	}
	if resp.Genres == nil {
		return nil, fmt.Errorf("get genres: %w", &core.DecodeError{Op: "genres", Err: errors.New("missing genres")})
	}
	return resp.Genres, nil
}

func (c *Client) listing(ctx context.Context, name, path string, page int) (*core.CatalogPage, error) {
	params := url.Values{"page": {strconv.Itoa(normalizePage(page))}}

	var resp pageResponse
	if err := c.get(ctx, name, path, params, &resp); err != nil {
		return nil, fmt.Errorf("get %s: %w", name, err)
	}
	if err := resp.validate(); err != nil {
		return nil, fmt.Errorf("get %s: %w", name, &core.DecodeError{Op: name, Err: err})
	}
	return resp.toPage(), nil
}

// get performs an authenticated GET request to the TMDb API and decodes the JSON response.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, result any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	q := u.Query()
	q.Set("api_key", c.apiKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = httpclient.RedactURL(req.URL)
		}
		return &core.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &core.DecodeError{Op: op, Err: err}
	}
	return nil
}

// remoteError builds a RemoteServiceError, preferring TMDb's status_message.
func remoteError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := http.StatusText(resp.StatusCode)
	var er errorResponse
	if json.Unmarshal(body, &er) == nil && er.StatusMessage != "" {
		msg = er.StatusMessage
	}
	return &core.RemoteServiceError{Status: resp.StatusCode, Message: msg}
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}
