package object

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage keeps values in a map under random UUIDs. Adding the same
// value twice yields two IDs.
type MemoryStorage[V any] struct {
	mu     sync.RWMutex
	values map[ID]V
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage[V any]() *MemoryStorage[V] {
	return &MemoryStorage[V]{values: make(map[ID]V)}
}

func (m *MemoryStorage[V]) Add(v V) (ID, error) {
	id := ID(uuid.New().String())
	m.mu.Lock()
	m.values[id] = v
	m.mu.Unlock()
	return id, nil
}

func (m *MemoryStorage[V]) Remove(id ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[id]; !ok {
		return fmt.Errorf("object remove %s: %w", id, ErrNotFound)
	}
	delete(m.values, id)
	return nil
}

func (m *MemoryStorage[V]) Get(id ID) (V, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[id]
	if !ok {
		var zero V
		return zero, fmt.Errorf("object get %s: %w", id, ErrNotFound)
	}
	return v, nil
}

func (m *MemoryStorage[V]) Contains(id ID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.values[id]
	return ok
}

func (m *MemoryStorage[V]) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values), nil
}
