package resource

import (
	"sync"
)

// MemoryStore is a Store kept in memory.
type MemoryStore struct {
	mtx   sync.RWMutex
	infos map[string]Info
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{infos: map[string]Info{}}
}

// Get returns the latest value of a resource.
func (m *MemoryStore) Get(name string) (Info, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	info, ok := m.infos[name]
	if !ok {
		return Info{}, ErrNotFound
	}
	return info, nil
}

// Set records the value of a resource.
func (m *MemoryStore) Set(info Info) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.infos[info.Name] = info
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}
