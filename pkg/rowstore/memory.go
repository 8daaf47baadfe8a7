package rowstore

import (
	"context"
	"sync"
)

// MemoryStore keeps tables in process memory. Used for tests and local demos.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]Row)}
}

// Read implements Store.
func (m *MemoryStore) Read(_ context.Context, table string) ([]Row, error) {
	if table == "" {
		return nil, ErrInvalidTable
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneRows(m.tables[table]), nil
}

// Write implements Store.
func (m *MemoryStore) Write(_ context.Context, table string, _ []string, rows []Row) error {
	if table == "" {
		return ErrInvalidTable
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table] = cloneRows(rows)
	return nil
}
