package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bft-labs/domaincfg/pkg/storage"
)

const fileExt = ".yml"

// FileStorage implements storage.Storage with one YAML file per name.
// Writes are atomic; concurrent readers never observe a partial file.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a FileStorage rooted at dir. The directory is
// created on first write.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

// Dir returns the storage directory.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Path returns the file that holds name.
func (s *FileStorage) Path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Read loads name. A missing file is reported as ok=false.
func (s *FileStorage) Read(ctx context.Context, name string) (storage.Payload, bool, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	raw, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	p := storage.Payload{}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", name, err)
	}
	return p, true, nil
}

// ReadMultiple loads every existing name.
func (s *FileStorage) ReadMultiple(ctx context.Context, names []string) (map[string]storage.Payload, error) {
	out := make(map[string]storage.Payload, len(names))
	for _, name := range names {
		p, ok, err := s.Read(ctx, name)
		if err != nil {
			return nil, err
		}
		if ok {
			out[name] = p
		}
	}
	return out, nil
}

// Write stores data under name atomically (temp file, then rename).
func (s *FileStorage) Write(ctx context.Context, name string, data storage.Payload) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if data == nil {
		data = storage.Payload{}
	}

	raw, err := yaml.Marshal(map[string]any(data))
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return writeAtomic(s.dir, s.Path(name), raw)
}

// List returns the stored names starting with prefix, sorted.
func (s *FileStorage) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), fileExt)
		if storage.ValidateName(name) != nil || !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes name. Deleting a missing name is not an error.
func (s *FileStorage) Delete(ctx context.Context, name string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// writeAtomic writes raw to a temp file in dir and renames it over path.
func writeAtomic(dir, path string, raw []byte) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

var (
	_ storage.Storage = (*FileStorage)(nil)
	_ storage.Lister  = (*FileStorage)(nil)
)
