// Package httpcache sets freshness and validator headers on responses.
package httpcache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
)

// ETag returns a weak validator for body.
func ETag(body []byte) string {
	h := sha256.Sum256(body)
	return `W/"` + hex.EncodeToString(h[:16]) + `"`
}

// SetMaxAge marks the response cacheable for seconds by intermediaries.
func SetMaxAge(w http.ResponseWriter, seconds int) {
	if seconds <= 0 {
		w.Header().Set("Cache-Control", "no-cache")
		return
	}
	w.Header().Set("Cache-Control", "max-age="+strconv.Itoa(seconds))
}

// NotModified reports whether the request's If-None-Match matches etag,
// using weak comparison.
func NotModified(r *http.Request, etag string) bool {
	inm := r.Header.Get("If-None-Match")
	if inm == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(inm, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}

// Write sends body with max-age and ETag headers, or 304 when the client's
// copy is current.
func Write(w http.ResponseWriter, r *http.Request, contentType string, maxAge int, body []byte) {
	etag := ETag(body)
	w.Header().Set("ETag", etag)
	SetMaxAge(w, maxAge)
	if NotModified(r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
