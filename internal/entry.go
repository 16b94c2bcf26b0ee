// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/folio/internal/contact"
	"github.com/starford/folio/internal/mcpserver"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/profile"
	"github.com/starford/folio/internal/sse"
	"github.com/starford/folio/internal/storage"
)

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// profileLoader returns the injected loader, or one for the configured
// GitHub user.
func (a *application) profileLoader() portfolio.ProfileLoader {
	if a.loader != nil {
		return a.loader
	}
	site := a.config.Site
	opts := []profile.Option{profile.WithMaxAge(site.CacheMaxAge)}
	if a.httpClient != nil {
		opts = append(opts, profile.WithHTTPClient(a.httpClient))
	}
	return profile.NewLoader(site.GitHubAPI, site.GitHubUser, opts...)
}

// openBackend opens the configured server-side preference backend. The
// cookie backend lives in the browser, so it has none.
func openBackend(cfg StorageConfig) (storage.Backend, error) {
	switch cfg.Backend {
	case StorageCookie, "":
		return nil, nil
	case StorageSQLite:
		return storage.OpenSQLite(cfg.SQLitePath)
	case StorageFile:
		return storage.NewFS(cfg.Dir)
	case StorageMemory:
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := newLogger(os.Stdout, cfg.App.LogLevel)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("github_user", cfg.Site.GitHubUser),
		slog.String("storage_backend", cfg.Storage.Backend),
		slog.String("templates_dir", cfg.Site.TemplatesDir),
		slog.String("log_level", cfg.App.LogLevel.String()))

	backend, err := openBackend(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if backend != nil {
		defer backend.Close()
	}

	templates, err := portfolio.NewTemplates(cfg.Site.TemplatesDir)
	if err != nil {
		return fmt.Errorf("init templates: %w", err)
	}

	// SSE broker.
	broker := sse.NewBroker()
	defer broker.Close()

	svcOpts := []portfolio.Option{
		portfolio.WithTitle(cfg.Site.Title),
		portfolio.WithLinks(cfg.Site.Links),
		portfolio.WithRecipient(cfg.Site.Recipient),
		portfolio.WithBroker(broker),
		portfolio.WithLogger(logger),
	}
	if backend != nil {
		svcOpts = append(svcOpts, portfolio.WithBackend(backend))
	}
	svc := portfolio.NewService(app.profileLoader(), templates, svcOpts...)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           NewRouter(svc, broker, cfg.App.HTTP.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload templates from disk when they change.
	g.Go(func() error {
		if err := templates.Watch(gCtx, logger); err != nil {
			logger.Warn("template watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		// Open event streams would otherwise hold Shutdown for the full timeout.
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// RunMCP serves the MCP tools on stdin/stdout until the client disconnects.
// Logs go to stderr so they never mix with the protocol stream.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := newLogger(os.Stderr, cfg.App.LogLevel)
	logger.Info("MCP server starting", slog.String("github_user", cfg.Site.GitHubUser))

	srv := mcpserver.New(app.profileLoader(), cfg.Site.Links, contact.NewHandler(cfg.Site.Recipient))
	return srv.ServeStdio(ctx)
}
