// Package visitor assigns each browser a stable anonymous ID.
package visitor

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CookieName holds the visitor ID.
const CookieName = "folio_visitor"

type ctxKey struct{}

// Middleware makes sure every request carries a visitor ID, issuing a new
// one (and its cookie) when the request has none or a malformed one.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if ck, err := r.Cookie(CookieName); err == nil {
			if u, err := uuid.Parse(ck.Value); err == nil {
				id = u.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int((365 * 24 * time.Hour) / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID returns a context carrying visitor ID id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From returns the visitor ID in ctx, or "".
func From(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// FromRequest returns the visitor ID of r.
func FromRequest(r *http.Request) string {
	return From(r.Context())
}
