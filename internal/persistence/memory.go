package persistence

import (
	"encoding/json"
	"sync"
)

// MemoryStore keeps settings in memory only, used when the database cannot be opened and in tests
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string][]byte{}}
}

func (m *MemoryStore) SaveSetting(namespace string, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.data[namespace]
	if !ok {
		bucket = map[string][]byte{}
		m.data[namespace] = bucket
	}
	bucket[key] = data
	return nil
}

func (m *MemoryStore) LoadSetting(namespace string, key string, target any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[namespace][key]
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, target); err != nil {
		delete(m.data[namespace], key)
		return ErrNotFound
	}
	return nil
}

func (m *MemoryStore) DeleteSetting(namespace string, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data[namespace], key)
	return nil
}
