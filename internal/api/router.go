package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/portfolio"
)

// NewRouter creates a chi router with all API routes mounted.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *portfolio.Service, sseHandler http.Handler, corsOrigins []string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(CORS(corsOrigins))

	r.Get("/profile", h.GetProfile)
	r.Get("/nav", h.GetNav)

	r.Group(func(r chi.Router) {
		r.Use(noStore)
		r.Get("/theme", h.GetTheme)
		r.Put("/theme", h.PutTheme)
	})

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
