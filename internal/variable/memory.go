package variable

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps variables in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	vars map[string]Variable
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vars: make(map[string]Variable)}
}

// Define creates the variable if it does not exist. It reports whether it was created.
func (m *MemoryStore) Define(_ context.Context, id string, kind Kind, value any) (bool, error) {
	v, err := newVariable(id, kind, value)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.vars[id]; exists {
		return false, nil
	}
	m.vars[id] = v
	return true, nil
}

// Get returns the variable.
func (m *MemoryStore) Get(_ context.Context, id string) (Variable, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.vars[id]
	if !ok {
		return Variable{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return v, nil
}

// Set coerces and stores value.
func (m *MemoryStore) Set(_ context.Context, id string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.vars[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	coerced, err := Coerce(v.Kind, value)
	if err != nil {
		return fmt.Errorf("variable %s: %w", id, err)
	}
	v.Value = coerced
	v.UpdatedAt = time.Now().UTC()
	m.vars[id] = v
	return nil
}

// newVariable validates and builds a variable.
func newVariable(id string, kind Kind, value any) (Variable, error) {
	if id == "" {
		return Variable{}, ErrInvalidID
	}
	if !kind.Valid() {
		return Variable{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	coerced, err := Coerce(kind, value)
	if err != nil {
		return Variable{}, fmt.Errorf("variable %s: %w", id, err)
	}
	return Variable{ID: id, Kind: kind, Value: coerced, UpdatedAt: time.Now().UTC()}, nil
}
