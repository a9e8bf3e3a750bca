package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tourli-ai/internal/handlers"
	"tourli-ai/internal/metrics"
	"tourli-ai/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService service.ChatService
	Engine      handlers.SnapshotSource
	// Reloader is optional; without it POST /api/init?reload=true is rejected.
	Reloader handlers.Reloader
	// Cache is optional and only reported on by the health check.
	Cache handlers.Pinger
	// IndexHTML is served at / when set.
	IndexHTML string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	chatHandler := handlers.NewChatHandler(deps.ChatService)
	healthHandler := handlers.NewHealthHandler(deps.Engine, deps.Cache)
	initHandler := handlers.NewInitHandler(deps.Engine, deps.Reloader)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/chat", chatHandler)
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/init", initHandler)
	})

	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	if deps.IndexHTML != "" {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(deps.IndexHTML))
		})
	}

	return r
}
