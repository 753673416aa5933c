package repository

import (
	"context"
	"sync"
)

// MemoryKV keeps values in process memory. Used by tests and STORE_BACKEND=memory.
type MemoryKV struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{store: make(map[string][]byte)}
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = cp
	return nil
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.store[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryKV) Del(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[key]; !ok {
		return 0, nil
	}
	delete(m.store, key)
	return 1, nil
}

func (m *MemoryKV) Ping(context.Context) error { return nil }
