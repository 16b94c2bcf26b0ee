package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	pkgconfig "github.com/starford/folio/pkg/config"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Site.CacheMaxAge != 3600 {
		t.Errorf("CacheMaxAge = %d, want 3600", cfg.Site.CacheMaxAge)
	}
}

func TestStorageConfig_EmptyBackendDefaultsCookie(t *testing.T) {
	cfg := StorageConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty backend should default to cookie: %v", err)
	}
	if cfg.Backend != StorageCookie {
		t.Errorf("backend = %q, want %q", cfg.Backend, StorageCookie)
	}
}

func TestStorageConfig_SQLiteNeedsPath(t *testing.T) {
	cfg := StorageConfig{Backend: StorageSQLite}
	if err := cfg.Validate(); err == nil {
		t.Fatal("sqlite backend without path should fail")
	}
	cfg.SQLitePath = "x.db"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sqlite backend with path: %v", err)
	}
}

func TestStorageConfig_InvalidBackend(t *testing.T) {
	cfg := StorageConfig{Backend: "redis"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown backend should fail validation")
	}
}

func TestSiteConfig_Invalid(t *testing.T) {
	cases := map[string]func(*SiteConfig){
		"empty user":      func(c *SiteConfig) { c.GitHubUser = "" },
		"bad user":        func(c *SiteConfig) { c.GitHubUser = "no/slashes" },
		"bad api url":     func(c *SiteConfig) { c.GitHubAPI = "not a url" },
		"negative maxage": func(c *SiteConfig) { c.CacheMaxAge = -1 },
		"bad recipient":   func(c *SiteConfig) { c.Recipient = "nobody" },
		"no links":        func(c *SiteConfig) { c.Links = nil },
		"unlabelled link": func(c *SiteConfig) { c.Links[0].Label = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			mutate(&cfg.Site)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestHTTPConfig_Port(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port out of range should fail")
	}
	cfg.App.HTTP.Port = 9090
	if cfg.App.HTTP.Address() != ":9090" {
		t.Errorf("Address = %q", cfg.App.HTTP.Address())
	}
}

func TestLoadYAML_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("FOLIO_TEST_USER", "octocat")
	yaml := `
app:
  log_level: debug
  http:
    port: 9000
site:
  github_user: ${FOLIO_TEST_USER}
  links:
    - destination: /
      label: Start
    - destination: https://github.com/octocat
      label: GitHub
storage:
  backend: memory
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewDefaultConfig()
	if err := pkgconfig.Load(path, cfg); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.HTTP.Port != 9000 || cfg.App.LogLevel.String() != "DEBUG" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Site.GitHubUser != "octocat" {
		t.Errorf("github_user = %q", cfg.Site.GitHubUser)
	}
	if len(cfg.Site.Links) != 2 || cfg.Site.Links[0].Label != "Start" {
		t.Errorf("links = %+v", cfg.Site.Links)
	}
	if cfg.Site.CacheMaxAge != 3600 || !strings.HasPrefix(cfg.Site.GitHubAPI, "https://") {
		t.Errorf("unset fields lost their defaults: %+v", cfg.Site)
	}
	if cfg.Storage.Backend != StorageMemory {
		t.Errorf("backend = %q", cfg.Storage.Backend)
	}
}
