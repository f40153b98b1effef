package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/vidflow/internal/config"
	"github.com/sevigo/vidflow/internal/server/handler"
	"github.com/sevigo/vidflow/internal/storage"
)

// NewRouter creates and configures the ingress router with middleware and
// API routes.
func NewRouter(cfg *config.Config, store storage.ObjectStore, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// API routes. Uploads carry whole video files, so the write timeout on
	// the route group stays generous.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Minute))
		uploadHandler := handler.NewUploadHandler(store, cfg.Storage.UploadBucket, cfg.Server.MaxUploadMB*1024*1024, logger)
		r.Post("/upload", uploadHandler.Handle)
	})

	return r
}
