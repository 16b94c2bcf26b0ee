// Package testutil provides shared test helpers for preference backends and
// a stand-in GitHub API.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/starford/folio/internal/storage"
)

// ProfileJSON is a trimmed GitHub user payload.
const ProfileJSON = `{"login":"octocat","name":"The Octocat","bio":"Cat of all trades","public_repos":8,"html_url":"https://github.com/octocat","avatar_url":"https://avatars.example/u/583231"}`

// TestSQLite opens a SQLite preference backend in a temp dir that is
// automatically cleaned up.
func TestSQLite(t *testing.T) *storage.SQLite {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "folio-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestFS creates a temporary directory with a file preference backend.
func TestFS(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, fs
}

// GitHub is a stand-in for the GitHub users endpoint.
type GitHub struct {
	*httptest.Server
	hits atomic.Int64
}

// Hits returns how many requests the server has answered.
func (g *GitHub) Hits() int { return int(g.hits.Load()) }

// NewGitHub starts a server answering every request with status and body.
func NewGitHub(t *testing.T, status int, body string) *GitHub {
	t.Helper()
	g := &GitHub{}
	g.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(g.Close)
	return g
}
