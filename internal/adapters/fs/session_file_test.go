package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bft-labs/domaincfg/pkg/scope"
)

func TestSessionFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "sessions")

	s, err := NewSessionFile(dir, "abc")
	if err != nil {
		t.Fatalf("NewSessionFile: %v", err)
	}
	if _, ok, err := s.Get(ctx, scope.SessionKeyDomain); ok || err != nil {
		t.Fatalf("Get on empty session = %v, %v", ok, err)
	}

	if err := s.Set(ctx, scope.SessionKeyDomain, "d1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, scope.SessionKeyLanguage, "fr"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// A second handle on the same file sees the values.
	other, _ := NewSessionFile(dir, "abc")
	if v, ok, _ := other.Get(ctx, scope.SessionKeyDomain); !ok || v != "d1" {
		t.Fatalf("Get = %q, %v", v, ok)
	}

	if err := other.Remove(ctx, scope.SessionKeyLanguage); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := other.Remove(ctx, scope.SessionKeyLanguage); err != nil {
		t.Fatalf("Remove missing: %v", err)
	}
	values, _ := s.Values()
	if len(values) != 1 || values[scope.SessionKeyDomain] != "d1" {
		t.Fatalf("Values = %v", values)
	}
}

func TestSessionFile_Isolation(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	a, _ := NewSessionFile(dir, "a")
	b, _ := NewSessionFile(dir, "b")
	_ = a.Set(ctx, scope.SessionKeyDomain, "d1")
	if _, ok, _ := b.Get(ctx, scope.SessionKeyDomain); ok {
		t.Fatal("sessions must not share values")
	}
}

func TestSessionFile_InvalidID(t *testing.T) {
	if _, err := NewSessionFile(t.TempDir(), "../x"); err == nil {
		t.Fatal("expected error for path-like session id")
	}
}

func TestSessionFile_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "s.json"), []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	s, _ := NewSessionFile(dir, "s")
	if _, _, err := s.Get(context.Background(), scope.SessionKeyDomain); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSessionFile_WithResolver(t *testing.T) {
	ctx := context.Background()
	s, _ := NewSessionFile(t.TempDir(), "cli")
	r := scope.NewResolver(scope.ResolverConfig{RememberContext: true, Session: s})

	if _, err := r.Begin(ctx, nil).SetContext(ctx, "d1", "fr"); err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if got := r.Begin(ctx, nil).Context(ctx); got != scope.New("d1", "fr") {
		t.Fatalf("Context = %v", got)
	}
}
