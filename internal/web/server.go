// Package web provides the HTTP server and JSON handlers for the task-board
// API.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"taskboard/internal/config"
	"taskboard/internal/core"
	"taskboard/internal/web/middleware"
)

// Pinger reports whether the store is reachable; used by the health
// endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server for the task-board API.
type Server struct {
	service *core.Service
	health  Pinger
	router  *chi.Mux
	server  *http.Server
	cfg     *config.Config
}

// NewServer creates a Server with middleware and routes configured.
func NewServer(service *core.Service, health Pinger, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		health:  health,
		router:  chi.NewRouter(),
		cfg:     cfg,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(chimw.Recoverer)
	s.router.Use(chimw.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Get("/users", s.handleListUsers)
	s.router.Post("/users", s.handleCreateUser)

	s.router.Get("/boards", s.handleListBoards)
	s.router.Post("/boards", s.handleCreateBoard)

	s.router.Route("/boards/{boardId}", func(r chi.Router) {
		r.Get("/users", s.handleListBoardUsers)
		r.Post("/users", s.handleAddBoardUser)
		r.Get("/lists", s.handleListLists)
		r.Post("/lists", s.handleCreateList)
	})

	s.router.Route("/lists/{listId}", func(r chi.Router) {
		r.Get("/cards", s.handleListCards)
		r.Post("/cards", s.handleCreateCard)
	})

	s.router.Route("/cards/{cardId}", func(r chi.Router) {
		r.Get("/users", s.handleListCardUsers)
		r.Post("/users", s.handleAddCardUser)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
