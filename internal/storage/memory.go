package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a process local KV. It is the default backend and the one
// used by tests.
type MemoryStore struct {
	mu         sync.RWMutex
	namespaces map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		namespaces: make(map[string]map[string][]byte),
	}
}

func (m *MemoryStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.namespaces[namespace][key]
	if !ok {
		return nil, ErrNotFound
	}

	return append([]byte(nil), value...), nil
}

func (m *MemoryStore) Set(ctx context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.namespaces[namespace]
	if !ok {
		entries = make(map[string][]byte)
		m.namespaces[namespace] = entries
	}

	entries[key] = append([]byte(nil), value...)

	return nil
}

func (m *MemoryStore) List(ctx context.Context, namespace string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Entry, 0, len(m.namespaces[namespace]))
	for key, value := range m.namespaces[namespace] {
		entries = append(entries, Entry{Key: key, Value: append([]byte(nil), value...)})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	return entries, nil
}

func (m *MemoryStore) Delete(ctx context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.namespaces[namespace][key]; !ok {
		return ErrNotFound
	}

	delete(m.namespaces[namespace], key)

	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
