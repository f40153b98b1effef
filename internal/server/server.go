// Package server implements the HTTP upload ingress.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sevigo/vidflow/internal/config"
	"github.com/sevigo/vidflow/internal/storage"
)

// Server wraps the ingress HTTP server with graceful shutdown.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the ingress server for the given configuration and
// object store.
func NewServer(cfg *config.Config, store storage.ObjectStore, logger *slog.Logger) *Server {
	router := NewRouter(cfg, store, logger)

	return &Server{
		server: &http.Server{
			Addr:    ":" + cfg.Server.Port,
			Handler: router,
			// No WriteTimeout: upload streaming is bounded per-route.
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

// Start starts the HTTP server and blocks until shutdown or error.
func (s *Server) Start() error {
	s.logger.Info("starting upload ingress", "address", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server with a 30-second timeout.
func (s *Server) Stop() error {
	s.logger.Info("shutting down upload ingress")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}
