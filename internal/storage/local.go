// Package storage provides the durable per-visitor key/value storage that
// stands in for browser local storage.
package storage

import (
	"context"
	"sync"
)

// Local is a single visitor's key/value storage.
type Local interface {
	// GetItem returns the value stored under key; ok is false when unset.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	// SetItem stores value under key, overwriting any previous value.
	SetItem(ctx context.Context, key, value string) error
}

// Backend stores items for many visitors.
type Backend interface {
	Get(ctx context.Context, visitor, key string) (string, bool, error)
	Set(ctx context.Context, visitor, key, value string) error
	Close() error
}

// ForVisitor binds a Backend to one visitor.
func ForVisitor(b Backend, visitor string) Local {
	return visitorLocal{backend: b, visitor: visitor}
}

type visitorLocal struct {
	backend Backend
	visitor string
}

func (v visitorLocal) GetItem(ctx context.Context, key string) (string, bool, error) {
	return v.backend.Get(ctx, v.visitor, key)
}

func (v visitorLocal) SetItem(ctx context.Context, key, value string) error {
	return v.backend.Set(ctx, v.visitor, key, value)
}

// Memory is an in-process Backend. Values are lost on restart.
type Memory struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

// NewMemory creates an empty Memory backend.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]map[string]string)}
}

func (m *Memory) Get(_ context.Context, visitor, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[visitor][key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, visitor, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.items[visitor] == nil {
		m.items[visitor] = make(map[string]string)
	}
	m.items[visitor][key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
