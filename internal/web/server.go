// Package web provides the JSON HTTP API for the mood journal.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"

	"github.com/justestif/go-mood-journal/internal/affirmation"
	"github.com/justestif/go-mood-journal/internal/cache"
	"github.com/justestif/go-mood-journal/internal/journal"
)

// DefaultAddr is the default server address.
const DefaultAddr = "127.0.0.1:8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr           string
	AllowedOrigins []string
	Journal        *journal.Service
	Affirmations   *affirmation.Service
	// Cache backs the recent-entries read cache. Defaults to process memory.
	Cache cache.Cache
}

// Server is the HTTP server for the API.
type Server struct {
	router   chi.Router
	server   *http.Server
	sessions *SessionStore
	handlers *Handlers
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Journal == nil {
		return nil, errors.New("journal service is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Affirmations == nil {
		cfg.Affirmations = affirmation.New()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewMemory()
	}

	sessions := NewSessionStore()
	router := chi.NewRouter()

	s := &Server{
		router:   router,
		sessions: sessions,
		handlers: NewHandlers(cfg.Journal, cfg.Affirmations, cache.NewReadThrough(cfg.Cache), sessions),
	}

	s.setupMiddleware()
	s.setupRoutes()

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)

	// Create and refresh wait on remote generators, so writes get more room.
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      cors(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root handler, including CORS.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes() {
	h := s.handlers

	s.router.Get("/health", h.Health)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/mood-entries", func(r chi.Router) {
			r.Post("/", h.CreateEntry)
			r.Get("/recent", h.RecentEntries)
			r.Get("/{id}", h.GetEntry)
			r.Get("/{id}/state", h.EntryState)
			r.Get("/{id}/playlists", h.EntryPlaylists)
			r.Post("/{id}/refresh-recommendations", h.RefreshRecommendations)
		})

		r.Post("/playlists/save", h.SavePlaylist)
		r.Get("/affirmation", h.Affirmation)
		r.Get("/insights", h.Insights)

		r.Get("/likes", h.Likes)
		r.Post("/likes/{trackId}", h.Like)
		r.Delete("/likes/{trackId}", h.Unlike)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting server at http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Println("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
