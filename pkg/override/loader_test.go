package override

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/bft-labs/domaincfg/pkg/naming"
	"github.com/bft-labs/domaincfg/pkg/scope"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

type countingStorage struct {
	*storage.Memory
	calls int
	err   error
}

func (c *countingStorage) ReadMultiple(ctx context.Context, names []string) (map[string]storage.Payload, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.Memory.ReadMultiple(ctx, names)
}

func seed(t *testing.T, m *storage.Memory, data map[string]storage.Payload) {
	t.Helper()
	for name, p := range data {
		if err := m.Write(context.Background(), name, p); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
}

func TestLoader_MostSpecificWins(t *testing.T) {
	mem := storage.NewMemory()
	seed(t, mem, map[string]storage.Payload{
		"system.site":                     {"name": "Global", "slogan": "g"},
		"domain.config.d1.system.site":    {"name": "D1"},
		"domain.config.d1.fr.system.site": {"slogan": "FR"},
		"domain.config.d2.system.site":    {"name": "D2"},
	})
	l := NewLoader(naming.NewMapper(naming.Policy{}), nil, FromStorage(mem))
	ctx := context.Background()

	tests := []struct {
		name string
		c    scope.Context
		want map[string]storage.Payload
	}{
		{"global has no overrides", scope.Global, map[string]storage.Payload{}},
		{"domain level", scope.New("d1", ""), map[string]storage.Payload{"system.site": {"name": "D1"}}},
		// The language payload wins entirely; its missing fields are not
		// filled from the domain level.
		{"language level", scope.New("d1", "fr"), map[string]storage.Payload{"system.site": {"slogan": "FR"}}},
		{"language falls back to domain", scope.New("d2", "fr"), map[string]storage.Payload{"system.site": {"name": "D2"}}},
		{"no override", scope.New("d3", ""), map[string]storage.Payload{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := l.LoadOverrides(ctx, []string{"system.site"}, tt.c)
			if err != nil {
				t.Fatalf("LoadOverrides: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("LoadOverrides = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoader_StaticPrecedence(t *testing.T) {
	mem := storage.NewMemory()
	seed(t, mem, map[string]storage.Payload{
		"domain.config.d1.system.site":    {"name": "stored-domain"},
		"domain.config.d1.fr.system.site": {"name": "stored-fr"},
	})
	static := NewStatic(map[string]storage.Payload{
		"domain.config.d1.system.site": {"name": "settings-domain"},
	})
	l := NewLoader(naming.NewMapper(naming.Policy{}), nil, static, FromStorage(mem))
	ctx := context.Background()

	got, _ := l.LoadOverrides(ctx, []string{"system.site"}, scope.New("d1", ""))
	if got["system.site"]["name"] != "settings-domain" {
		t.Fatalf("settings should win at the same level, got %v", got)
	}

	got, _ = l.LoadOverrides(ctx, []string{"system.site"}, scope.New("d1", "fr"))
	if got["system.site"]["name"] != "stored-fr" {
		t.Fatalf("a more specific stored payload should win, got %v", got)
	}

	static.Replace(nil)
	got, _ = l.LoadOverrides(ctx, []string{"system.site"}, scope.New("d1", ""))
	if got["system.site"]["name"] != "stored-domain" {
		t.Fatalf("after Replace, got %v", got)
	}
}

func TestLoader_BatchAndGuards(t *testing.T) {
	mem := &countingStorage{Memory: storage.NewMemory()}
	seed(t, mem.Memory, map[string]storage.Payload{
		"domain.config.d1.system.site":        {"name": "D1"},
		"domain.config.d1.system.performance": {"cache": true},
		"domain.config.d1.core.extension":     {"module": "x"},
		"domain.config.d1.domain.record.d2":   {"bad": true},
	})
	mapper := naming.NewMapper(naming.Policy{DenyList: []string{"core.extension"}})
	l := NewLoader(mapper, nil, FromStorage(mem))

	keys := []string{"system.site", "system.performance", "core.extension", "domain.record.d2", "system.missing"}
	got, err := l.LoadOverrides(context.Background(), keys, scope.New("d1", ""))
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if mem.calls != 1 {
		t.Fatalf("expected a single batched read, got %d", mem.calls)
	}
	if len(got) != 2 || got["system.site"] == nil || got["system.performance"] == nil {
		t.Fatalf("LoadOverrides = %v", got)
	}
	if _, ok := got["core.extension"]; ok {
		t.Fatal("deny-listed name must not be overridden")
	}
	if _, ok := got["domain.record.d2"]; ok {
		t.Fatal("record namespace must short-circuit")
	}
}

func TestLoader_SourceError(t *testing.T) {
	boom := errors.New("disk gone")
	mem := &countingStorage{Memory: storage.NewMemory(), err: boom}
	l := NewLoader(naming.NewMapper(naming.Policy{}), nil, FromStorage(mem))

	if _, err := l.LoadOverrides(context.Background(), []string{"system.site"}, scope.New("d1", "")); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestLoader_ResolveReportsOrigin(t *testing.T) {
	mem := storage.NewMemory()
	seed(t, mem, map[string]storage.Payload{
		"domain.config.d1.fr.system.site": {"name": "Bonjour"},
		"domain.config.d1.system.mail":    {"from": "d1@example.com"},
	})
	static := NewStatic(map[string]storage.Payload{
		"domain.config.d1.system.performance": {"cache": true},
	})
	l := NewLoader(naming.NewMapper(naming.Policy{}), nil, static, FromStorage(mem))

	got, err := l.Resolve(context.Background(), []string{"system.site", "system.mail", "system.performance"}, scope.New("d1", "fr"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	tests := []struct {
		base   string
		name   string
		source string
		stored bool
	}{
		{"system.site", "domain.config.d1.fr.system.site", SourceStorage, true},
		{"system.mail", "domain.config.d1.system.mail", SourceStorage, true},
		{"system.performance", "domain.config.d1.system.performance", SourceSettings, false},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			hit, ok := got[tt.base]
			if !ok {
				t.Fatalf("no hit for %s", tt.base)
			}
			if hit.Name != tt.name || hit.Source != tt.source || hit.Stored() != tt.stored {
				t.Fatalf("hit = {%s %s stored=%v}, want {%s %s stored=%v}",
					hit.Name, hit.Source, hit.Stored(), tt.name, tt.source, tt.stored)
			}
		})
	}
}
