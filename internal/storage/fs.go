package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

var visitorRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// FS is a Backend that keeps one JSON object per visitor under root.
type FS struct {
	root string // absolute path to the preferences directory

	mu sync.Mutex
}

// NewFS creates an FS backend rooted at dir, creating it if needed.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// path maps a visitor ID to its file, rejecting IDs that could escape root.
func (f *FS) path(visitor string) (string, error) {
	if !visitorRe.MatchString(visitor) {
		return "", fmt.Errorf("storage: invalid visitor id %q", visitor)
	}
	return filepath.Join(f.root, visitor+".json"), nil
}

func (f *FS) Get(_ context.Context, visitor, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read(visitor)
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (f *FS) Set(_ context.Context, visitor, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read(visitor)
	if err != nil {
		return err
	}
	items[key] = value
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	p, err := f.path(visitor)
	if err != nil {
		return err
	}
	return writeAtomic(p, data)
}

func (f *FS) Close() error { return nil }

func (f *FS) read(visitor string) (map[string]string, error) {
	p, err := f.path(visitor)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", visitor, err)
	}
	items := make(map[string]string)
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w", visitor, err)
	}
	return items, nil
}

// writeAtomic writes content: tmp file → fsync → rename.
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".folio-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}
