package configstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory property store. It counts writes per key.
type MemoryStore struct {
	hooks

	mu     sync.Mutex
	values map[string]map[string][]byte // owner → key → value
	writes map[string]int               // owner/key → SetProperty calls
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string]map[string][]byte),
		writes: make(map[string]int),
	}
}

// RegisterProperty inserts key with defaultValue unless it already exists.
func (m *MemoryStore) RegisterProperty(_ context.Context, owner, key, defaultValue string) error {
	if err := validKey(owner, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	props := m.owner(owner)
	if _, ok := props[key]; !ok {
		props[key] = []byte(defaultValue)
	}
	return nil
}

// Property returns a copy of the value of key.
func (m *MemoryStore) Property(_ context.Context, owner, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	value, ok := m.values[owner][key]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrPropertyNotFound, owner, key)
	}
	return append([]byte(nil), value...), nil
}

// SetProperty stores a copy of value under key.
func (m *MemoryStore) SetProperty(_ context.Context, owner, key string, value []byte) error {
	if err := validKey(owner, key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.owner(owner)[key] = append([]byte(nil), value...)
	m.writes[owner+"/"+key]++
	return nil
}

// Keys returns the property keys of owner in key order.
func (m *MemoryStore) Keys(_ context.Context, owner string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.values[owner]))
	for key := range m.values[owner] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// ApplyChanges runs the apply hooks for owner.
func (m *MemoryStore) ApplyChanges(ctx context.Context, owner string) error {
	return m.run(ctx, owner)
}

// Writes returns how often key was written with SetProperty.
func (m *MemoryStore) Writes(owner, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[owner+"/"+key]
}

// owner returns the property map of owner, creating it. Caller holds mu.
func (m *MemoryStore) owner(owner string) map[string][]byte {
	props, ok := m.values[owner]
	if !ok {
		props = make(map[string][]byte)
		m.values[owner] = props
	}
	return props
}
