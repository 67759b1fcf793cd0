package credstore

import "sync"

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps values in process memory. It satisfies Store for tests
// and for callers that do not need durability.
type MemoryStore struct {
	lock   sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.values, key)
}
