// Package server provides the HTTP API for Tadasu.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/tadasu/internal/config"
	"github.com/hyperjump/tadasu/internal/storage"
	"github.com/hyperjump/tadasu/internal/validator"
)

// Server is the HTTP server for the Tadasu API.
type Server struct {
	engine  *validator.Engine
	storage storage.Storage
	config  *config.ServerConfig
	// contentRoot is the default tree checked when a request names none.
	contentRoot string
	logger      *zap.Logger
	server      *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *validator.Engine,
	storage storage.Storage,
	cfg *config.ServerConfig,
	contentRoot string,
	logger *zap.Logger,
) *Server {
	return &Server{
		engine:      engine,
		storage:     storage,
		config:      cfg,
		contentRoot: contentRoot,
		logger:      logger,
	}
}

// Routes returns the configured router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Post("/api/v1/check", s.handleCheck)
	r.Get("/api/v1/runs", s.handleListRuns)
	r.Get("/api/v1/runs/{id}", s.handleGetRun)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
