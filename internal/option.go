package internal

import (
	"net/http"

	"github.com/starford/folio/internal/portfolio"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	httpClient *http.Client
	loader     portfolio.ProfileLoader
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithHTTPClient sets the client used to reach the GitHub API.
func WithHTTPClient(c *http.Client) Option {
	return func(a *application) {
		a.httpClient = c
	}
}

// WithProfileLoader replaces the GitHub profile loader.
func WithProfileLoader(l portfolio.ProfileLoader) Option {
	return func(a *application) {
		a.loader = l
	}
}
