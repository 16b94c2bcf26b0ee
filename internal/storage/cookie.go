package storage

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// CookiePrefix namespaces the cookies used as local storage.
const CookiePrefix = "folio_ls_"

const cookieMaxAge = 365 * 24 * time.Hour

// Cookie is a Local that keeps items in the visitor's browser, one cookie
// per key. It is bound to a single request/response pair.
type Cookie struct {
	r *http.Request
	w http.ResponseWriter

	mu      sync.Mutex
	written map[string]string
}

// NewCookie binds cookie storage to an exchange.
func NewCookie(w http.ResponseWriter, r *http.Request) *Cookie {
	return &Cookie{r: r, w: w, written: make(map[string]string)}
}

func (c *Cookie) GetItem(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.written[key]; ok {
		return v, true, nil
	}
	ck, err := c.r.Cookie(CookiePrefix + key)
	if err != nil {
		return "", false, nil
	}
	v, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return "", false, nil
	}
	return v, true, nil
}

func (c *Cookie) SetItem(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.written[key] = value
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookiePrefix + key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(cookieMaxAge / time.Second),
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
