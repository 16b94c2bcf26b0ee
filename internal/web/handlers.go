// Package web serves the portfolio's HTML pages and form posts.
package web

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/contact"
	"github.com/starford/folio/internal/httpcache"
	"github.com/starford/folio/internal/nav"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/profile"
)

const maxFormBytes = 64 << 10

// Handler holds the page handlers.
type Handler struct {
	svc *portfolio.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *portfolio.Service) *Handler {
	return &Handler{svc: svc}
}

// NewRouter mounts the page routes.
func NewRouter(svc *portfolio.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Get("/contact", h.Contact)
	r.Post("/contact", h.SubmitContact)
	r.Post("/theme", h.SetTheme)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, http.StatusNotFound, "Not found", "There is nothing at "+r.URL.Path+".")
	})
	return r
}

// Home handles GET /. The profile is loaded before anything is rendered.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Profile(r.Context())
	if err != nil {
		var le *profile.LoadError
		if errors.As(err, &le) {
			slog.Warn("profile load failed",
				slog.String("endpoint", le.Endpoint),
				slog.Int("status", le.Status),
				slog.String("error", err.Error()))
		}
		h.renderError(w, r, http.StatusBadGateway, "Profile unavailable", "The GitHub profile could not be loaded.")
		return
	}
	h.render(w, r, portfolio.PageHome, portfolio.View{Profile: portfolio.NewProfileView(data)})
}

// Contact handles GET /contact.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, portfolio.PageContact, portfolio.View{Heading: "Contact"})
}

// SubmitContact handles POST /contact. The fields go through the contact
// form's submit handler and the visitor is sent to the resulting mailto:
// link.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.renderError(w, r, http.StatusRequestEntityTooLarge, "Message too long", "The message could not be read.")
		return
	}
	fields, err := contact.ParseFields(string(body))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Bad request", "The form could not be read.")
		return
	}

	target, err := h.svc.SubmitContact(w, r, fields)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			http.Redirect(w, r, "/contact", http.StatusSeeOther)
			return
		}
		slog.Error("contact submit failed", slog.String("error", err.Error()))
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "The message could not be composed.")
		return
	}
	// http.Redirect would clean a mailto: URL as if it were a path.
	w.Header().Set("Location", target)
	w.WriteHeader(http.StatusSeeOther)
}

// SetTheme handles POST /theme, the no-script fallback for the selector.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Bad request", "The form could not be read.")
		return
	}

	if _, err := h.svc.ChangeTheme(w, r, r.PostForm.Get(nav.SelectorID)); err != nil {
		if errors.Is(err, apperr.ErrInvalidScheme) {
			h.renderError(w, r, http.StatusBadRequest, "Bad request", "Unknown colour scheme.")
			return
		}
		slog.Error("theme change failed", slog.String("error", err.Error()))
		h.renderError(w, r, http.StatusInternalServerError, "Something went wrong", "The colour scheme could not be saved.")
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the same-site page the form was posted from, or "/".
// The result is always a rooted path, never a scheme-relative URL.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != r.Host) {
		return "/"
	}
	if strings.HasPrefix(ref.Path, "//") || strings.Contains(ref.Path, `\`) {
		return "/"
	}
	p := path.Clean("/" + ref.Path)
	if strings.HasSuffix(ref.Path, "/") && p != "/" {
		p += "/"
	}
	back := url.URL{Path: p, RawQuery: ref.RawQuery}
	return back.String()
}

// render writes a page. Pages carry the visitor's colour scheme, so they
// are revalidated on every request rather than cached for the profile's
// max-age.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, view portfolio.View) {
	p, err := h.svc.RenderPage(w, r, name, view)
	if err != nil {
		slog.Error("render page failed", slog.String("page", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer p.Close()

	body, err := p.Bytes()
	if err != nil {
		slog.Error("render page failed", slog.String("page", name), slog.String("error", err.Error()))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Add("Vary", "Cookie")
	httpcache.Write(w, r, "text/html; charset=utf-8", 0, body)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, heading, msg string) {
	p, err := h.svc.RenderPage(w, r, portfolio.PageError, portfolio.View{Heading: heading, Error: msg})
	if err != nil {
		http.Error(w, msg, status)
		return
	}
	defer p.Close()

	body, err := p.Bytes()
	if err != nil {
		http.Error(w, msg, status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
