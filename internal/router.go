package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/starford/folio/internal/api"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/visitor"
	"github.com/starford/folio/internal/web"
)

// NewRouter assembles the site: health checks, the JSON API under /api and
// the HTML pages.
func NewRouter(svc *portfolio.Service, broker *sse.Broker, corsOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (no visitor cookie).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Group(func(r chi.Router) {
		r.Use(visitor.Middleware)

		var events http.Handler
		if broker != nil {
			events = broker.Handler(visitor.FromRequest)
		}
		r.Mount("/api", api.NewRouter(svc, events, corsOrigins))
		r.Mount("/", web.NewRouter(svc))
	})

	return r
}
