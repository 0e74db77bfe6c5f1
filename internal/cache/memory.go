package cache

import (
	"context"
	"sync"
)

type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string][]byte{}}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	cp := append([]byte(nil), value...)
	m.mu.Lock()
	m.data[key] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data), nil
}

func (m *MemoryKV) Close() error { return nil }

// NopKV never holds anything, so every lookup misses.
type NopKV struct{}

func (NopKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopKV) Put(context.Context, string, []byte) error { return nil }

func (NopKV) Count(context.Context) (int, error) { return 0, nil }

func (NopKV) Close() error { return nil }
