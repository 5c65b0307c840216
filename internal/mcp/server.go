package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/core"
	"github.com/vadimtrunov/StreamShelf/internal/metadata/tmdb"
)

// Deps holds the catalog dependencies for MCP tool handlers.
type Deps struct {
	Source core.CatalogSource
	MyList *browse.MyList
}

// Server wraps an MCP SDK server with StreamShelf catalog tools.
type Server struct {
	server *mcpsdk.Server
	deps   Deps
	logger *slog.Logger
}

// NewServer creates an MCP server with all catalog tools registered.
func NewServer(deps Deps, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "streamshelf",
			Version: version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, deps: deps, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(listCatalogTool(), s.handleListCatalog)
	s.server.AddTool(searchCatalogTool(), s.handleSearchCatalog)
	s.server.AddTool(getItemTool(), s.handleGetItem)
	s.server.AddTool(listGenresTool(), s.handleListGenres)
	s.server.AddTool(imageURLTool(), s.handleImageURL)
	s.server.AddTool(featuredTool(), s.handleFeatured)
	s.server.AddTool(myListTool(), s.handleMyList)
}

func listCatalogTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_catalog",
		Description: "List one page of a curated catalog listing: popular, top_rated, now_playing or upcoming. Returns IDs, titles, years, ratings and poster URLs.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"category": map[string]any{
					"type":        "string",
					"enum":        []any{"popular", "top_rated", "now_playing", "upcoming"},
					"description": "The listing to fetch",
				},
				"page": pageProperty(),
			},
			"required": []any{"category"},
		},
	}
}

func searchCatalogTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "search_catalog",
		Description: "Search the catalog by free text. Returns matching items with their IDs, titles, years and ratings.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The text to search for",
				},
				"page": pageProperty(),
			},
			"required": []any{"query"},
		},
	}
}

func getItemTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_item",
		Description: "Get full details for a catalog item by its ID, including overview, genres and image URLs.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "integer",
					"description": "The catalog (TMDb) ID of the item",
				},
			},
			"required": []any{"id"},
		},
	}
}

func listGenresTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_genres",
		Description: "List all genres with their IDs.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func imageURLTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "image_url",
		Description: "Build a full image URL from an image path and size (w92, w185, w500, w1280, original). An empty path yields the placeholder image.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Image path as returned in poster_path or backdrop_path",
				},
				"size": map[string]any{
					"type":        "string",
					"description": "Size token, defaults to original",
				},
			},
		},
	}
}

func featuredTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_featured",
		Description: "Get the featured title highlighted on the home screen, with full details.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

func myListTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_my_list",
		Description: "List the user's saved titles grouped into shelves (Continue Watching, My Movies, My TV Shows). With a query, return only the saved titles whose title or overview matches.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Optional text to filter saved titles by",
				},
			},
		},
	}
}

func pageProperty() map[string]any {
	return map[string]any{
		"type":        "integer",
		"description": "1-based page number, defaults to 1",
	}
}

// itemSummary is the compact form returned by listing and search tools.
type itemSummary struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Year      int     `json:"year,omitempty"`
	Rating    string  `json:"rating"`
	Votes     int     `json:"votes"`
	Score     float64 `json:"popularity"`
	PosterURL string  `json:"poster_url"`
}

type pageResult struct {
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
	TotalResults int           `json:"total_results"`
	Results      []itemSummary `json:"results"`
}

type itemDetail struct {
	core.CatalogItem
	Genres      []string `json:"genres"`
	Rating      string   `json:"rating"`
	PosterURL   string   `json:"poster_url"`
	BackdropURL string   `json:"backdrop_url"`
}

type shelfResult struct {
	Title string        `json:"title"`
	Items []itemSummary `json:"items"`
}

func summarizeItems(items []core.CatalogItem) []itemSummary {
	out := make([]itemSummary, 0, len(items))
	for _, item := range items {
		out = append(out, itemSummary{
			ID:        item.ID,
			Title:     item.Title,
			Year:      item.ReleaseYear(),
			Rating:    item.Rating(),
			Votes:     item.VoteCount,
			Score:     item.Popularity,
			PosterURL: tmdb.PosterURL(item.PosterPath),
		})
	}
	return out
}

func summarize(p *core.CatalogPage) pageResult {
	return pageResult{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Results:      summarizeItems(p.Results),
	}
}

// describe builds the detail view of item; genre names are best effort.
func (s *Server) describe(ctx context.Context, item core.CatalogItem) itemDetail {
	detail := itemDetail{
		CatalogItem: item,
		Rating:      item.Rating(),
		PosterURL:   tmdb.PosterURL(item.PosterPath),
		BackdropURL: tmdb.BackdropURL(item.BackdropPath),
		Genres:      []string{},
	}
	if genres, err := s.deps.Source.Genres(ctx); err == nil {
		detail.Genres = core.GenreNames(item.GenreIDs, genres)
	}
	return detail
}

// Tool handlers: each parses arguments, calls the catalog, returns JSON text content.

func (s *Server) handleListCatalog(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Source == nil {
		return toolError("catalog source not configured"), nil
	}

	var args struct {
		Category string `json:"category"`
		Page     int    `json:"page"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	category, err := browse.ParseCategory(args.Category)
	if err != nil {
		return toolError(err.Error()), nil
	}

	page, err := category.Fetch(ctx, s.deps.Source, args.Page)
	if err != nil {
		s.logger.Warn("mcp list failed", "category", category, "error", err)
		return toolError(fmt.Sprintf("list %s failed: %v", category, err)), nil
	}
	return toolJSON(summarize(page))
}

func (s *Server) handleSearchCatalog(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Source == nil {
		return toolError("catalog source not configured"), nil
	}

	var args struct {
		Query string `json:"query"`
		Page  int    `json:"page"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	query, err := browse.NormalizeQuery(args.Query)
	if err != nil {
		return toolError("search_catalog requires a non-empty 'query' string argument"), nil
	}

	page, err := s.deps.Source.Search(ctx, query, args.Page)
	if err != nil {
		s.logger.Warn("mcp search failed", "query", query, "error", err)
		return toolError(fmt.Sprintf("search failed: %v", err)), nil
	}
	return toolJSON(summarize(page))
}

func (s *Server) handleGetItem(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Source == nil {
		return toolError("catalog source not configured"), nil
	}

	id, err := extractIntFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	item, err := s.deps.Source.Detail(ctx, id)
	if err != nil {
		return toolError(fmt.Sprintf("get item %d failed: %v", id, err)), nil
	}

	return toolJSON(s.describe(ctx, *item))
}

func (s *Server) handleFeatured(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Source == nil {
		return toolError("catalog source not configured"), nil
	}

	item, err := browse.Featured(ctx, s.deps.Source)
	if err != nil {
		return toolError(fmt.Sprintf("featured title failed: %v", err)), nil
	}
	return toolJSON(s.describe(ctx, item))
}

func (s *Server) handleMyList(_ context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args struct {
		Query *string `json:"query"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}

	if args.Query != nil {
		results, err := s.deps.MyList.Search(*args.Query)
		if err != nil {
			return toolError("list_my_list 'query' must not be blank"), nil
		}
		return toolJSON(map[string]any{"results": summarizeItems(results)})
	}

	shelves := s.deps.MyList.Shelves()
	out := make([]shelfResult, 0, len(shelves))
	for _, shelf := range shelves {
		out = append(out, shelfResult{Title: shelf.Title, Items: summarizeItems(shelf.Items)})
	}
	return toolJSON(map[string]any{"shelves": out})
}

func (s *Server) handleListGenres(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Source == nil {
		return toolError("catalog source not configured"), nil
	}

	genres, err := s.deps.Source.Genres(ctx)
	if err != nil {
		return toolError(fmt.Sprintf("list genres failed: %v", err)), nil
	}
	return toolJSON(genres)
}

func (s *Server) handleImageURL(_ context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args struct {
		Path string `json:"path"`
		Size string `json:"size"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
	}
	return toolJSON(map[string]any{
		"url": tmdb.ImageURL(args.Path, args.Size),
	})
}

// Helper functions.

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// extractIntFromArgs extracts an integer argument from raw JSON arguments.
func extractIntFromArgs(raw json.RawMessage, key string) (int, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return 0, fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return 0, fmt.Errorf("%s is required", key)
	}

	switch v := val.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", key, val)
	}
}
