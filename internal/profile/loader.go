// Package profile loads the GitHub profile shown on the home page.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMaxAge is the cache hint, in seconds, attached to every load.
const DefaultMaxAge = 3600

// DefaultBaseURL is the GitHub REST API root.
const DefaultBaseURL = "https://api.github.com"

// PageData is what the loader hands to the rendering layer.
type PageData struct {
	MaxAge     int `json:"maxAge"`
	GithubData any `json:"githubData"`
}

// LoadError reports a failed profile fetch. The page is not rendered with
// substitute content when this happens.
type LoadError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *LoadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("profile: load %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("profile: load %s: %v", e.Endpoint, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

var errStatus = errors.New("unexpected status")

// Loader fetches one user profile.
type Loader struct {
	endpoint   string
	maxAge     int
	httpClient *http.Client
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		l.httpClient = c
	}
}

// WithMaxAge overrides DefaultMaxAge.
func WithMaxAge(seconds int) Option {
	return func(l *Loader) {
		l.maxAge = seconds
	}
}

// NewLoader creates a Loader for GET <baseURL>/users/<username>.
func NewLoader(baseURL, username string, opts ...Option) *Loader {
	l := &Loader{
		endpoint:   strings.TrimRight(baseURL, "/") + "/users/" + username,
		maxAge:     DefaultMaxAge,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Endpoint returns the profile URL the loader reads.
func (l *Loader) Endpoint() string { return l.endpoint }

// MaxAge returns the cache hint attached to every result.
func (l *Loader) MaxAge() int { return l.maxAge }

// Load performs exactly one GET against the profile endpoint. No headers
// beyond the client defaults are set and no timeout is applied beyond ctx.
func (l *Loader) Load(ctx context.Context) (*PageData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.endpoint, nil)
	if err != nil {
		return nil, &LoadError{Endpoint: l.endpoint, Err: fmt.Errorf("creating request: %w", err)}
	}

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, &LoadError{Endpoint: l.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &LoadError{Endpoint: l.endpoint, Status: resp.StatusCode, Err: errStatus}
	}

	data, err := decode(resp.Body)
	if err != nil {
		return nil, &LoadError{Endpoint: l.endpoint, Status: resp.StatusCode, Err: err}
	}

	return &PageData{MaxAge: l.maxAge, GithubData: data}, nil
}

// decode parses exactly one JSON value, keeping numbers as json.Number.
func decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding response: trailing data after JSON value")
	}
	return v, nil
}
