package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/goccy/go-json"

	"github.com/bft-labs/domaincfg/pkg/scope"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// SessionFile implements scope.SessionStore as a JSON object stored in
// <dir>/<session>.json.
type SessionFile struct {
	mu   sync.Mutex
	path string
	dir  string
}

// NewSessionFile creates a session store for the given session id.
func NewSessionFile(dir, session string) (*SessionFile, error) {
	if err := storage.ValidateName(session); err != nil {
		return nil, fmt.Errorf("session %q: %w", session, err)
	}
	return &SessionFile{
		dir:  dir,
		path: filepath.Join(dir, session+".json"),
	}, nil
}

// Path returns the session file path.
func (s *SessionFile) Path() string {
	return s.path
}

func (s *SessionFile) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *SessionFile) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *SessionFile) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return s.save(values)
}

// Values returns every stored key.
func (s *SessionFile) Values() (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *SessionFile) load() (map[string]string, error) {
	values := make(map[string]string)
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", s.path, err)
	}
	return values, nil
}

func (s *SessionFile) save(values map[string]string) error {
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return writeAtomic(s.dir, s.path, raw)
}

var _ scope.SessionStore = (*SessionFile)(nil)
