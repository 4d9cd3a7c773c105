package fs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/bft-labs/domaincfg/pkg/storage"
)

func TestFileStorage_ReadMissing(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "config"))
	p, ok, err := s.Read(context.Background(), "system.site")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if ok || p != nil {
		t.Fatalf("Read missing = %v, %v", p, ok)
	}
}

func TestFileStorage_WriteRead(t *testing.T) {
	ctx := context.Background()
	s := NewFileStorage(filepath.Join(t.TempDir(), "config"))

	in := storage.Payload{
		"name":  "Example",
		"count": 3,
		"page":  map[string]any{"front": "/node", "403": ""},
		"tags":  []any{"a", "b"},
	}
	if err := s.Write(ctx, "system.site", in); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, ok, err := s.Read(ctx, "system.site")
	if err != nil || !ok {
		t.Fatalf("Read = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("Read = %#v, want %#v", got, in)
	}

	raw, err := os.ReadFile(s.Path("system.site"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(raw), "name: Example") {
		t.Fatalf("file is not YAML:\n%s", raw)
	}
}

func TestFileStorage_NoTempFilesLeft(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewFileStorage(dir)
	for i := 0; i < 3; i++ {
		if err := s.Write(ctx, "k", storage.Payload{"i": i}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || entries[0].Name() != "k.yml" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("dir entries = %v", names)
	}
}

func TestFileStorage_ReadMultipleListDelete(t *testing.T) {
	ctx := context.Background()
	s := NewFileStorage(t.TempDir())
	for _, name := range []string{"system.site", "domain.config.d1.system.site", "domain.config.d2.system.site"} {
		if err := s.Write(ctx, name, storage.Payload{"name": name}); err != nil {
			t.Fatalf("Write %s: %v", name, err)
		}
	}

	got, err := s.ReadMultiple(ctx, []string{"system.site", "missing", "domain.config.d1.system.site"})
	if err != nil {
		t.Fatalf("ReadMultiple: %v", err)
	}
	if len(got) != 2 || got["system.site"]["name"] != "system.site" {
		t.Fatalf("ReadMultiple = %v", got)
	}

	names, err := s.List(ctx, "domain.config.")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"domain.config.d1.system.site", "domain.config.d2.system.site"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("List = %v, want %v", names, want)
	}

	if err := s.Delete(ctx, "domain.config.d1.system.site"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "domain.config.d1.system.site"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
	names, _ = s.List(ctx, "")
	if want := []string{"domain.config.d2.system.site", "system.site"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("List after delete = %v, want %v", names, want)
	}
}

func TestFileStorage_ListMissingDir(t *testing.T) {
	s := NewFileStorage(filepath.Join(t.TempDir(), "absent"))
	names, err := s.List(context.Background(), "")
	if err != nil || len(names) != 0 {
		t.Fatalf("List = %v, %v", names, err)
	}
}

func TestFileStorage_InvalidNames(t *testing.T) {
	ctx := context.Background()
	s := NewFileStorage(t.TempDir())
	for _, name := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.Write(ctx, name, storage.Payload{}); !errors.Is(err, storage.ErrInvalidName) {
			t.Errorf("Write(%q) = %v, want ErrInvalidName", name, err)
		}
		if _, _, err := s.Read(ctx, name); !errors.Is(err, storage.ErrInvalidName) {
			t.Errorf("Read(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestFileStorage_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yml"), []byte("name: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, _, err := NewFileStorage(dir).Read(context.Background(), "bad"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFileStorage_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewFileStorage(t.TempDir())
	if err := s.Write(ctx, "k", storage.Payload{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Write = %v", err)
	}
}
