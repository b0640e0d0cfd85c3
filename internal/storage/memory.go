package storage

import (
	"context"
	"sync"
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// MemoryStore is an in-process SessionStore used in tests and when no Redis
// address is configured.
type MemoryStore struct {
	m    sync.RWMutex
	data map[string][]byte
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]byte, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	data, ok := s.data[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID string, data []byte) error {
	s.m.Lock()
	defer s.m.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.data[sessionID] = stored
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.data, sessionID)
	return nil
}
