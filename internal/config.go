package internal

import (
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/folio/internal/contact"
	"github.com/starford/folio/internal/nav"
	"github.com/starford/folio/internal/profile"
)

// Storage backends for the colour-scheme preference.
const (
	StorageCookie = "cookie"
	StorageSQLite = "sqlite"
	StorageFile   = "file"
	StorageMemory = "memory"
)

var githubUserRe = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9-]{0,38})$`)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Site    SiteConfig        `yaml:"site"`
	Storage StorageConfig     `yaml:"storage"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Site.Validate(); err != nil {
		return err
	}
	return c.Storage.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SiteConfig describes the portfolio itself.
type SiteConfig struct {
	Title        string     `yaml:"title"`
	GitHubUser   string     `yaml:"github_user"`
	GitHubAPI    string     `yaml:"github_api"`
	CacheMaxAge  int        `yaml:"cache_max_age"`
	Recipient    string     `yaml:"recipient"`
	TemplatesDir string     `yaml:"templates_dir"`
	Links        []nav.Link `yaml:"links"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.GitHubUser, validation.Required, validation.Match(githubUserRe)),
		validation.Field(&c.GitHubAPI, validation.Required, is.URL),
		validation.Field(&c.CacheMaxAge, validation.Min(0)),
		validation.Field(&c.Recipient, validation.Required, is.EmailFormat),
		validation.Field(&c.Links, validation.Required),
	); err != nil {
		return err
	}
	for i, l := range c.Links {
		if l.Destination == "" || l.Label == "" {
			return fmt.Errorf("site: links[%d]: destination and label are required", i)
		}
	}
	return nil
}

// StorageConfig selects where colour-scheme preferences live.
//
// Backend is one of:
//   - "cookie" (default): in the visitor's browser, like local storage.
//   - "sqlite": rows in SQLitePath, keyed by the visitor cookie.
//   - "file": one JSON file per visitor under Dir.
//   - "memory": process memory, lost on restart.
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	SQLitePath string `yaml:"sqlite_path"`
	Dir        string `yaml:"dir"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = StorageCookie
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required,
			validation.In(StorageCookie, StorageSQLite, StorageFile, StorageMemory)),
		validation.Field(&c.SQLitePath, validation.When(c.Backend == StorageSQLite, validation.Required)),
		validation.Field(&c.Dir, validation.When(c.Backend == StorageFile, validation.Required)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Site: SiteConfig{
			Title:       "Enrique Casillas",
			GitHubUser:  "casillasenrique",
			GitHubAPI:   profile.DefaultBaseURL,
			CacheMaxAge: profile.DefaultMaxAge,
			Recipient:   contact.DefaultRecipient,
			Links:       nav.DefaultLinks(),
		},
		Storage: StorageConfig{
			Backend:    StorageCookie,
			SQLitePath: "./folio.db",
			Dir:        "./prefs",
		},
	}
}
