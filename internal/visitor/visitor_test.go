package visitor

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestMiddleware_IssuesID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromRequest(r)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("visitor id %q is not a uuid", seen)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName || cookies[0].Value != seen {
		t.Errorf("cookies = %+v", cookies)
	}
}

func TestMiddleware_KeepsExistingID(t *testing.T) {
	id := uuid.NewString()
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromRequest(r)
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: id})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if seen != id {
		t.Errorf("id = %q, want %q", seen, id)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("cookie re-issued for a known visitor")
	}
}

func TestMiddleware_ReplacesMalformedID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromRequest(r)
	}))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), r)

	if seen == "../../etc" || seen == "" {
		t.Errorf("malformed id kept: %q", seen)
	}
}
