package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/httpcache"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/profile"
	"github.com/starford/folio/internal/theme"
)

// Handler holds API route handlers.
type Handler struct {
	svc *portfolio.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *portfolio.Service) *Handler {
	return &Handler{svc: svc}
}

// GetProfile handles GET /api/profile.
//
//	@Summary		Load the GitHub profile shown on the home page
//	@Tags			profile
//	@Produce		json
//	@Success		200	{object}	ProfileResponse
//	@Success		304
//	@Failure		502	{object}	errResponse
//	@Router			/profile [get]
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Profile(r.Context())
	if err != nil {
		var le *profile.LoadError
		if errors.As(err, &le) {
			slog.Warn("profile load failed",
				slog.String("endpoint", le.Endpoint),
				slog.Int("status", le.Status),
				slog.String("error", err.Error()))
			writeJSON(w, http.StatusBadGateway, errorBody("profile unavailable"))
			return
		}
		slog.Error("profile load failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	httpcache.Write(w, r, "application/json; charset=utf-8", data.MaxAge, append(body, '\n'))
}

// GetNav handles GET /api/nav.
//
//	@Summary		List the navigation links
//	@Tags			nav
//	@Produce		json
//	@Success		200	{object}	NavResponse
//	@Router			/nav [get]
func (h *Handler) GetNav(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, NavResponse{Links: h.svc.Links()})
}

// GetTheme handles GET /api/theme.
//
//	@Summary		Get the visitor's colour scheme
//	@Tags			theme
//	@Produce		json
//	@Success		200	{object}	ThemeResponse
//	@Router			/theme [get]
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	s, ok, err := h.svc.CurrentTheme(w, r)
	if err != nil {
		slog.Error("read colour scheme failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if !ok {
		s = theme.Automatic
	}
	writeJSON(w, http.StatusOK, ThemeResponse{ColorScheme: string(s), Stored: ok})
}

// PutTheme handles PUT /api/theme.
//
//	@Summary		Set the visitor's colour scheme
//	@Tags			theme
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ThemeRequest	true	"Scheme to apply"
//	@Success		200		{object}	ThemeResponse
//	@Failure		400		{object}	errResponse
//	@Router			/theme [put]
func (h *Handler) PutTheme(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<10)
	var req ThemeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON"))
		return
	}

	s, err := h.svc.ChangeTheme(w, r, req.ColorScheme)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidScheme) {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
			return
		}
		slog.Error("theme change failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, ThemeResponse{ColorScheme: string(s), Stored: true})
}
