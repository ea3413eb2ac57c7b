package internal

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrStorageDenied is what a failing MemoryBackend reports for every call
var ErrStorageDenied = errors.New("storage access denied")

// MemoryBackend keeps values in a map. It is used for ephemeral runs and tests,
// and can be switched into a failing mode to simulate denied storage.
type MemoryBackend struct {
	mu      sync.Mutex
	values  map[string]string
	failing bool
	writes  int
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

// SetFailing makes every subsequent call fail with ErrStorageDenied
func (m *MemoryBackend) SetFailing(failing bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = failing
}

// Writes reports how many successful Set calls were made
func (m *MemoryBackend) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryBackend) Name() string { return "memory" }

func (m *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return "", false, ErrStorageDenied
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrStorageDenied
	}
	m.values[key] = value
	m.writes++
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return ErrStorageDenied
	}
	delete(m.values, key)
	return nil
}

func (m *MemoryBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return nil, ErrStorageDenied
	}
	keys := make([]string, 0)
	for k := range m.values {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryBackend) Close() error { return nil }
