package scope

import (
	"context"
	"sync"
)

// MemorySession is an in-memory SessionStore, useful for tests and for
// embedding in processes that keep one session per user in memory.
type MemorySession struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemorySession creates an empty session.
func NewMemorySession() *MemorySession {
	return &MemorySession{values: make(map[string]string)}
}

func (s *MemorySession) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemorySession) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemorySession) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

var _ SessionStore = (*MemorySession)(nil)
