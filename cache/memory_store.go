package cache

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store. The mutex only protects the map;
// callers still race on cold keys and the last writer wins.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	payload := make([]byte, len(entry.Payload))
	copy(payload, entry.Payload)
	return &Entry{Timestamp: entry.Timestamp, Payload: payload}, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, entry Entry) error {
	payload := make([]byte, len(entry.Payload))
	copy(payload, entry.Payload)

	s.mu.Lock()
	s.entries[key] = Entry{Timestamp: entry.Timestamp, Payload: payload}
	s.mu.Unlock()
	return nil
}

// Len returns the number of keys ever stored, stale ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
