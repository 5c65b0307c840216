package httpclient

import (
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultUserAgent = "StreamShelf/0.1"

// secretParams are query parameters whose values never appear in logs.
var secretParams = []string{"api_key", "token", "access_token"}

// Config holds transport configuration.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   15 * time.Second,
		UserAgent: defaultUserAgent,
	}
}

// Client wraps http.Client with request logging.
// Each call to Do performs exactly one round trip; failures are returned unchanged.
type Client struct {
	http   *http.Client
	config Config
	logger *slog.Logger
}

// New creates a new Client with a default http.Client.
func New(cfg Config, logger *slog.Logger) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout}, logger)
}

// NewWithHTTPClient creates a Client with a custom http.Client (e.g. a test transport).
func NewWithHTTPClient(cfg Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		http:   httpClient,
		config: cfg,
		logger: logger,
	}
}

// Do executes a single HTTP request.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		c.logger.Debug("http request failed",
			slog.String("method", req.Method),
			slog.String("url", RedactURL(req.URL)),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Debug("http request",
		slog.String("method", req.Method),
		slog.String("url", RedactURL(req.URL)),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", elapsed),
	)
	return resp, nil
}

// RedactURL renders u with secret query parameter values masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	redacted := *u
	q := redacted.Query()
	for _, key := range secretParams {
		if q.Has(key) {
			q.Set(key, "REDACTED")
		}
	}
	redacted.RawQuery = q.Encode()
	redacted.User = nil
	return redacted.String()
}
