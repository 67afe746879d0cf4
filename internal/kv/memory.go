package kv

import (
	"context"
	"sync"
)

// MemoryKV is an in-process KV used in tests and as a stand-in when no
// database is configured.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailSaves makes every Save return FailErr, to exercise the
	// storage-unavailable paths in tests.
	FailSaves bool
	FailErr   error
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string][]byte)}
}

func (m *MemoryKV) Load(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *MemoryKV) Save(ctx context.Context, key string, value []byte) error {
	if m.FailSaves {
		return m.FailErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
