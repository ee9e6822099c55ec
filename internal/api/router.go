package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillhq/studio-gateway/internal/maintenance"
	"github.com/quillhq/studio-gateway/internal/manager"
	"github.com/quillhq/studio-gateway/internal/ollama"
	"github.com/quillhq/studio-gateway/internal/session"
)

// NewRouter creates the Chi router with all routes and middleware.
func NewRouter(
	mgr *manager.Manager,
	client *ollama.Client,
	resolver *maintenance.Resolver,
	sessions *session.Manager,
	apiKey string,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (runs on ALL routes including /health)
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	ollamaH := NewOllamaHandler(mgr, client, logger)
	maintenanceH := NewMaintenanceHandler(resolver)

	// Liveness probe, unauthenticated.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(BearerAuth(apiKey))

		r.Route("/ollama", func(r chi.Router) {
			r.Get("/status", ollamaH.Status)
			r.Get("/models", ollamaH.Models)
			r.Post("/models/pull", ollamaH.Pull)
			r.Delete("/models/delete", ollamaH.Delete)
			r.Get("/models/{name}", ollamaH.Model)
			r.Get("/snapshot", ollamaH.Snapshot)
			r.Get("/health", ollamaH.Health)
		})

		r.Get("/maintenance", maintenanceH.Window)

		// Session routes are mounted only when session management is
		// configured.
		if sessions != nil {
			sessionH := NewSessionHandler(sessions, logger)
			r.Route("/session", func(r chi.Router) {
				r.Get("/", sessionH.Current)
				r.Post("/signout", sessionH.SignOut)
			})
		}
	})

	return r
}
