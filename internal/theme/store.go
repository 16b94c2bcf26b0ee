package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/starford/folio/internal/storage"
)

// Store reads and writes the visitor's colour-scheme preference.
type Store interface {
	// Get returns the stored preference; ok is false when none is set.
	Get(ctx context.Context) (s Scheme, ok bool, err error)
	Set(ctx context.Context, s Scheme) error
}

// NewStore keeps the preference under StorageKey in items.
func NewStore(items storage.Local) Store {
	return &localStore{items: items}
}

type localStore struct {
	items storage.Local
}

func (s *localStore) Get(ctx context.Context) (Scheme, bool, error) {
	raw, ok, err := s.items.GetItem(ctx, StorageKey)
	if err != nil {
		return "", false, fmt.Errorf("theme: read preference: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	v, err := Parse(raw)
	if err != nil {
		// A value this site never wrote counts as no preference.
		return "", false, nil
	}
	return v, true, nil
}

func (s *localStore) Set(ctx context.Context, v Scheme) error {
	if _, err := Parse(string(v)); err != nil {
		return err
	}
	if err := s.items.SetItem(ctx, StorageKey, string(v)); err != nil {
		return fmt.Errorf("theme: write preference: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mu  sync.Mutex
	v   Scheme
	set bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Get(context.Context) (Scheme, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.v, m.set, nil
}

func (m *MemoryStore) Set(_ context.Context, v Scheme) error {
	if _, err := Parse(string(v)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.v, m.set = v, true
	return nil
}
