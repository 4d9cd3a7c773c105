package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestPayload_Overlay(t *testing.T) {
	base := Payload{"name": "Global", "slogan": "hello", "page": map[string]any{"front": "/node"}}
	over := Payload{"name": "D1"}

	got := base.Overlay(over)
	want := Payload{"name": "D1", "slogan": "hello", "page": map[string]any{"front": "/node"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Overlay = %v, want %v", got, want)
	}
	if base["name"] != "Global" {
		t.Fatal("Overlay must not modify the receiver")
	}

	// Overlay is shallow: a nested map replaces the whole field.
	got = base.Overlay(Payload{"page": map[string]any{"403": "/denied"}})
	if _, ok := got.Get("page.front"); ok {
		t.Fatal("nested fields must not be merged")
	}

	var empty Payload
	if got := empty.Overlay(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil overlay nil = %v", got)
	}
}

func TestPayload_Paths(t *testing.T) {
	p := Payload{}
	p.Set("page.front", "/home")
	p.Set("name", "site")

	if v, ok := p.Get("page.front"); !ok || v != "/home" {
		t.Fatalf("Get(page.front) = %v, %v", v, ok)
	}
	if _, ok := p.Get("page.missing"); ok {
		t.Fatal("missing path should report ok=false")
	}
	if _, ok := p.Get("name.sub"); ok {
		t.Fatal("path through a scalar should report ok=false")
	}

	p.Set("name.sub", 1)
	if v, _ := p.Get("name.sub"); v != 1 {
		t.Fatalf("Set should replace scalar intermediates, got %v", v)
	}

	p.Clear("page.front")
	if _, ok := p.Get("page.front"); ok {
		t.Fatal("Clear did not remove page.front")
	}
	p.Clear("nothing.here")
}

func TestPayload_CloneIsDeep(t *testing.T) {
	p := Payload{"list": []any{map[string]any{"a": 1}}, "m": map[string]any{"x": 1}}
	c := p.Clone()
	c["m"].(map[string]any)["x"] = 2
	c["list"].([]any)[0].(map[string]any)["a"] = 2
	if p["m"].(map[string]any)["x"] != 1 || p["list"].([]any)[0].(map[string]any)["a"] != 1 {
		t.Fatal("Clone shares nested state")
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok, err := m.Read(ctx, "system.site"); ok || err != nil {
		t.Fatalf("Read on empty store = %v, %v", ok, err)
	}
	if err := m.Write(ctx, "system.site", Payload{"name": "x"}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := m.Write(ctx, "domain.config.d1.system.site", Payload{"name": "y"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	p, ok, err := m.Read(ctx, "system.site")
	if err != nil || !ok || p["name"] != "x" {
		t.Fatalf("Read = %v, %v, %v", p, ok, err)
	}
	p["name"] = "mutated"
	if again, _, _ := m.Read(ctx, "system.site"); again["name"] != "x" {
		t.Fatal("Read must return a copy")
	}

	all, err := m.ReadMultiple(ctx, []string{"system.site", "missing", "domain.config.d1.system.site"})
	if err != nil || len(all) != 2 {
		t.Fatalf("ReadMultiple = %v, %v", all, err)
	}

	names, _ := m.List(ctx, "domain.config.")
	if len(names) != 1 || names[0] != "domain.config.d1.system.site" {
		t.Fatalf("List = %v", names)
	}
	_ = m.Delete(ctx, "system.site")
	if _, ok, _ := m.Read(ctx, "system.site"); ok {
		t.Fatal("Delete did not remove the entry")
	}
}

func TestValidateName(t *testing.T) {
	for _, bad := range []string{"", "  ", "a/b", `a\b`, ".hidden", "a\nb"} {
		if err := ValidateName(bad); !errors.Is(err, ErrInvalidName) {
			t.Errorf("ValidateName(%q) = %v, want ErrInvalidName", bad, err)
		}
	}
	if err := ValidateName("domain.config.d1.fr.system.site"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
}
