package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-memory Storage. Payloads are deep-copied on the way in
// and out so callers never share state with the store.
type Memory struct {
	mu   sync.RWMutex
	data map[string]Payload
}

// NewMemory creates an empty in-memory storage.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]Payload)}
}

func (m *Memory) Read(_ context.Context, name string) (Payload, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.data[name]
	if !ok {
		return nil, false, nil
	}
	return p.Clone(), true, nil
}

func (m *Memory) ReadMultiple(_ context.Context, names []string) (map[string]Payload, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Payload, len(names))
	for _, name := range names {
		if p, ok := m.data[name]; ok {
			out[name] = p.Clone()
		}
	}
	return out, nil
}

func (m *Memory) Write(_ context.Context, name string, data Payload) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if data == nil {
		data = Payload{}
	}
	m.mu.Lock()
	m.data[name] = data.Clone()
	m.mu.Unlock()
	return nil
}

// List returns the stored names starting with prefix, sorted.
func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var names []string
	for name := range m.data {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes name. Missing names are ignored.
func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	delete(m.data, name)
	m.mu.Unlock()
	return nil
}

var (
	_ Storage = (*Memory)(nil)
	_ Lister  = (*Memory)(nil)
)
