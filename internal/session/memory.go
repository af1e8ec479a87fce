package session

import (
	"context"
	"time"
)

// MemoryStore is an in-process Store used by tests and by setups that
// run without Redis. TTLs are ignored; entries live for the process.
type MemoryStore struct {
	values map[string][]byte
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)
	s.values[key] = v
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	delete(s.values, key)
	return nil
}
