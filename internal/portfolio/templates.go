package portfolio

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

//go:embed templates/*.html
var embedded embed.FS

const layoutFile = "layout.html"

// Page template names.
const (
	PageHome    = "home"
	PageContact = "contact"
	PageError   = "error"
)

var pageNames = []string{PageHome, PageContact, PageError}

// Templates holds one parsed template set per page. Each set is the shared
// layout plus the page's "content" block.
type Templates struct {
	dir string

	mu  sync.RWMutex
	set map[string]*template.Template
}

// NewTemplates parses the page templates from dir, or from the embedded
// defaults when dir is empty.
func NewTemplates(dir string) (*Templates, error) {
	t := &Templates{dir: dir}
	if err := t.Reload(); err != nil {
		return nil, err
	}
	return t, nil
}

// Dir returns the template directory, or "" for embedded templates.
func (t *Templates) Dir() string { return t.dir }

func (t *Templates) source() fs.FS {
	if t.dir == "" {
		sub, _ := fs.Sub(embedded, "templates")
		return sub
	}
	return os.DirFS(t.dir)
}

// Reload re-parses every page. On error the previous set stays in use.
func (t *Templates) Reload() error {
	src := t.source()
	set := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.ParseFS(src, layoutFile, name+".html")
		if err != nil {
			return fmt.Errorf("templates: parse %s: %w", name, err)
		}
		set[name] = tpl
	}

	t.mu.Lock()
	t.set = set
	t.mu.Unlock()
	return nil
}

// Execute renders page name with data.
func (t *Templates) Execute(w io.Writer, name string, data any) error {
	t.mu.RLock()
	tpl, ok := t.set[name]
	t.mu.RUnlock()
	if !ok {
		return fmt.Errorf("templates: unknown page %q", name)
	}
	return tpl.ExecuteTemplate(w, "layout", data)
}

// Watch re-parses the templates whenever a file in the template directory
// changes, until ctx is cancelled. Embedded templates never change, so
// Watch returns immediately for them.
func (t *Templates) Watch(ctx context.Context, logger *slog.Logger) error {
	if t.dir == "" {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(t.dir); err != nil {
		return fmt.Errorf("templates: watch %s: %w", t.dir, err)
	}

	logger.Info("templates: watching", slog.String("dir", t.dir))

	// Editors emit bursts of events for one save.
	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("templates: watcher stopped")
			return nil

		case <-reloadCh:
			if err := t.Reload(); err != nil {
				logger.Warn("templates: reload failed", slog.String("error", err.Error()))
				continue
			}
			logger.Info("templates: reloaded")

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".html") || ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("templates: changed", slog.String("file", filepath.Base(ev.Name)), slog.String("op", ev.Op.String()))
			if reloadTimer == nil {
				reloadTimer = time.NewTimer(100 * time.Millisecond)
				reloadCh = reloadTimer.C
			} else {
				reloadTimer.Reset(100 * time.Millisecond)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("templates: watcher error", slog.String("error", watchErr.Error()))
		}
	}
}
