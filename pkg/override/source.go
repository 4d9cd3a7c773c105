package override

import (
	"context"
	"sync"

	"github.com/bft-labs/domaincfg/pkg/storage"
)

// Names of the built-in sources.
const (
	SourceSettings = "settings"
	SourceStorage  = "storage"
)

// Source supplies override payloads indexed by candidate name.
// Lookup omits names it has no payload for.
type Source interface {
	Name() string
	Lookup(ctx context.Context, names []string) (map[string]storage.Payload, error)
}

// Static is a settings-file style source: a fixed map of candidate name to
// payload, replaceable at runtime. It is safe for concurrent use.
type Static struct {
	mu        sync.RWMutex
	overrides map[string]storage.Payload
}

// NewStatic creates a static source from overrides.
func NewStatic(overrides map[string]storage.Payload) *Static {
	s := &Static{}
	s.Replace(overrides)
	return s
}

// Replace swaps the overrides.
func (s *Static) Replace(overrides map[string]storage.Payload) {
	cp := make(map[string]storage.Payload, len(overrides))
	for name, p := range overrides {
		cp[name] = p.Clone()
	}
	s.mu.Lock()
	s.overrides = cp
	s.mu.Unlock()
}

func (s *Static) Name() string { return SourceSettings }

func (s *Static) Lookup(_ context.Context, names []string) (map[string]storage.Payload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]storage.Payload)
	for _, name := range names {
		if p, ok := s.overrides[name]; ok {
			out[name] = p.Clone()
		}
	}
	return out, nil
}

// storageSource reads overrides from a Storage.
type storageSource struct {
	store storage.Storage
}

// FromStorage returns a Source backed by store.
func FromStorage(store storage.Storage) Source {
	return storageSource{store: store}
}

func (s storageSource) Name() string { return SourceStorage }

func (s storageSource) Lookup(ctx context.Context, names []string) (map[string]storage.Payload, error) {
	return s.store.ReadMultiple(ctx, names)
}
