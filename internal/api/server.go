// Package api exposes the catalog as a read-only JSON HTTP API.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vadimtrunov/StreamShelf/internal/browse"
	"github.com/vadimtrunov/StreamShelf/internal/core"
)

// shutdownTimeout is the maximum time to wait for the HTTP server to shut down.
const shutdownTimeout = 5 * time.Second

// Server wraps an HTTP server that serves catalog requests.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	mu         sync.RWMutex
	ready      chan struct{}
	started    atomic.Bool
	logger     *slog.Logger
}

var _ core.Frontend = (*Server)(nil)

// NewServer creates an API server listening on the given port.
// myList may be nil, in which case the saved list is empty.
func NewServer(port int, source core.CatalogSource, myList *browse.MyList, logger *slog.Logger) *Server {
	if source == nil {
		panic("api.NewServer: source must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           NewRouter(source, myList, logger),
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		ready:  make(chan struct{}),
		logger: logger,
	}
}

// NewRouter builds the chi router with all API routes mounted.
func NewRouter(source core.CatalogSource, myList *browse.MyList, logger *slog.Logger) http.Handler {
	h := &handler{source: source, myList: myList}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(recoverPanic)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", healthHandler)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/lists/{category}", h.listCategory)
		r.Get("/search", h.search)
		r.Get("/movies/{id}", h.detail)
		r.Get("/genres", h.genres)
		r.Get("/featured", h.featured)
		r.Get("/mylist", h.myListItems)
		r.Get("/images", h.imageURL)
	})

	return r
}

// Name returns the frontend name.
func (s *Server) Name() string { return "api" }

// Ready returns a channel that is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listener address once the server has started.
// Returns empty string if the server hasn't started yet.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// Start begins serving API requests. It blocks until the server
// stops or an error occurs. The server shuts down gracefully when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return fmt.Errorf("api server already started")
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		s.started.Store(false)
		return fmt.Errorf("api server listen: %w", err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	close(s.ready)

	s.logger.Info("api server started", slog.String("addr", ln.Addr().String()))

	serveDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-serveDone:
			return
		}
		s.logger.Info("api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		//nolint:contextcheck // parent ctx is canceled; we need a fresh context for graceful shutdown
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("api server shutdown error", slog.String("error", err.Error()))
		}
	}()

	err = s.httpServer.Serve(ln)
	close(serveDone)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "ok")
}
