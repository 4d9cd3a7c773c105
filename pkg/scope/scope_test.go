package scope

import (
	"context"
	"errors"
	"testing"
)

func testRegistry() *Registry {
	return NewRegistry([]Domain{
		{ID: "d1", Hostname: "one.example.com"},
		{ID: "d2", Hostname: "Two.Example.com"},
	}, []string{"en", "fr"})
}

func TestRegistry_UnconfiguredKindAcceptsAny(t *testing.T) {
	ctx := context.Background()

	domainsOnly := NewRegistry([]Domain{{ID: "d1"}}, nil)
	if !domainsOnly.LanguageExists(ctx, "fr") || domainsOnly.LanguageExists(ctx, "") {
		t.Error("registry without languages should accept any non-empty language")
	}
	if domainsOnly.DomainExists(ctx, "d2") {
		t.Error("configured domains must still be validated")
	}

	languagesOnly := NewRegistry(nil, []string{"fr"})
	if !languagesOnly.DomainExists(ctx, "d9") || languagesOnly.LanguageExists(ctx, "de") {
		t.Error("registry without domains should accept any domain and validate languages")
	}

	r := NewResolver(ResolverConfig{Lookup: domainsOnly})
	op := r.Begin(ctx, &Selection{DomainID: "d1", LanguageID: "fr"})
	if got := op.Context(ctx); got != New("d1", "fr") {
		t.Errorf("Context = %+v, want d1/fr", got)
	}
}

func TestContext_Normalize(t *testing.T) {
	if got := New("", "fr"); got != Global {
		t.Errorf("New(\"\", fr) = %+v, want global", got)
	}
	c := New("d1", "fr")
	if c.String() != "d1/fr" || c.CacheSuffix() != "d1fr" {
		t.Errorf("unexpected rendering %s / %s", c.String(), c.CacheSuffix())
	}
	if Global.String() != "global" || Global.CacheSuffix() != "" || !Global.IsGlobal() {
		t.Error("global context rendering")
	}
}

func TestRegistry(t *testing.T) {
	r := testRegistry()
	ctx := context.Background()

	if !r.DomainExists(ctx, "d1") || r.DomainExists(ctx, "d3") || r.DomainExists(ctx, "") {
		t.Error("DomainExists")
	}
	if !r.LanguageExists(ctx, "fr") || r.LanguageExists(ctx, "de") {
		t.Error("LanguageExists")
	}
	if id, ok := r.DomainForHost("two.example.com:8080"); !ok || id != "d2" {
		t.Errorf("DomainForHost = %q, %v", id, ok)
	}
	if h, ok := r.Hostname("d1"); !ok || h != "one.example.com" {
		t.Errorf("Hostname = %q, %v", h, ok)
	}
	if got := r.Domains(); len(got) != 2 || got[0] != "d1" {
		t.Errorf("Domains = %v", got)
	}
}

func TestOperation_Precedence(t *testing.T) {
	ctx := context.Background()
	session := NewMemorySession()
	_ = session.Set(ctx, SessionKeyDomain, "d2")
	_ = session.Set(ctx, SessionKeyLanguage, "fr")

	tests := []struct {
		name     string
		remember bool
		sel      *Selection
		want     Context
	}{
		{"empty when nothing set", false, nil, Global},
		{"session ignored without remember", false, nil, Global},
		{"session used with remember", true, nil, Context{DomainID: "d2", LanguageID: "fr"}},
		{"explicit beats session", true, &Selection{DomainID: "d1"}, Context{DomainID: "d1"}},
		{"explicit without remember", false, &Selection{DomainID: "d1", LanguageID: "en"}, Context{DomainID: "d1", LanguageID: "en"}},
		{"invalid explicit domain cleared", false, &Selection{DomainID: "nope", LanguageID: "en"}, Global},
		{"invalid explicit language cleared", false, &Selection{DomainID: "d1", LanguageID: "xx"}, Context{DomainID: "d1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(ResolverConfig{
				RememberContext: tt.remember,
				Session:         session,
				Lookup:          testRegistry(),
			})
			op := r.Begin(ctx, tt.sel)
			if got := op.Context(ctx); got != tt.want {
				t.Errorf("Context = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOperation_MemoizedAgainstSessionChanges(t *testing.T) {
	ctx := context.Background()
	session := NewMemorySession()
	_ = session.Set(ctx, SessionKeyDomain, "d1")

	r := NewResolver(ResolverConfig{RememberContext: true, Session: session, Lookup: testRegistry()})
	op := r.Begin(ctx, nil)
	if got := op.Context(ctx); got.DomainID != "d1" {
		t.Fatalf("Context = %+v", got)
	}

	_ = session.Set(ctx, SessionKeyDomain, "d2")
	if got := op.Context(ctx); got.DomainID != "d1" {
		t.Fatalf("context changed mid-operation: %+v", got)
	}
	if got := r.Begin(ctx, nil).Context(ctx); got.DomainID != "d2" {
		t.Fatalf("new operation should see d2, got %+v", got)
	}
}

func TestOperation_SetContextWithoutRemember(t *testing.T) {
	ctx := context.Background()
	session := NewMemorySession()
	r := NewResolver(ResolverConfig{Session: session, Lookup: testRegistry()})

	opA := r.Begin(ctx, nil)
	if _, err := opA.SetContext(ctx, "d2", ""); err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if got := opA.Context(ctx); got.DomainID != "d2" {
		t.Fatalf("operation A context = %+v, want d2", got)
	}
	if opA.Version() != 1 {
		t.Fatalf("Version = %d, want 1", opA.Version())
	}

	opB := r.Begin(ctx, nil)
	if got := opB.Context(ctx); got != Global {
		t.Fatalf("operation B context = %+v, want global", got)
	}
	if _, ok, _ := session.Get(ctx, SessionKeyDomain); ok {
		t.Fatal("session must not be written when remembering is disabled")
	}
}

func TestOperation_SetContextRemember(t *testing.T) {
	ctx := context.Background()
	session := NewMemorySession()
	r := NewResolver(ResolverConfig{RememberContext: true, Session: session, Lookup: testRegistry()})

	op := r.Begin(ctx, &Selection{DomainID: "d1"})
	if got := op.Context(ctx); got.DomainID != "d1" {
		t.Fatalf("Context = %+v", got)
	}
	c, err := op.SetContext(ctx, "d2", "fr")
	if err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if c != (Context{DomainID: "d2", LanguageID: "fr"}) || op.Context(ctx) != c {
		t.Fatalf("switch did not take effect: %+v", op.Context(ctx))
	}
	if v, _, _ := session.Get(ctx, SessionKeyLanguage); v != "fr" {
		t.Fatalf("session language = %q", v)
	}
	if got := r.Begin(ctx, nil).Context(ctx); got != c {
		t.Fatalf("next operation = %+v, want %+v", got, c)
	}

	// Switching back to all domains clears the session.
	if _, err := op.SetContext(ctx, "", "fr"); err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if _, ok, _ := session.Get(ctx, SessionKeyDomain); ok {
		t.Fatal("domain should be removed from session")
	}
	if _, ok, _ := session.Get(ctx, SessionKeyLanguage); ok {
		t.Fatal("language should be removed from session")
	}
}

func TestOperation_SetContextInvalidIDs(t *testing.T) {
	ctx := context.Background()
	r := NewResolver(ResolverConfig{Lookup: testRegistry()})
	op := r.Begin(ctx, nil)

	c, err := op.SetContext(ctx, "missing", "fr")
	if err != nil {
		t.Fatalf("SetContext: %v", err)
	}
	if c != Global {
		t.Fatalf("invalid domain should clear to global, got %+v", c)
	}
	c, _ = op.SetContext(ctx, "d1", "zz")
	if c != (Context{DomainID: "d1"}) {
		t.Fatalf("invalid language should be cleared, got %+v", c)
	}
}

type failingSession struct{ err error }

func (f failingSession) Get(context.Context, string) (string, bool, error) { return "", false, f.err }
func (f failingSession) Set(context.Context, string, string) error         { return f.err }
func (f failingSession) Remove(context.Context, string) error              { return f.err }

func TestOperation_SessionFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	r := NewResolver(ResolverConfig{RememberContext: true, Session: failingSession{err: boom}})

	op := r.Begin(ctx, nil)
	if got := op.Context(ctx); got != Global {
		t.Fatalf("read failure should degrade to global, got %+v", got)
	}
	c, err := op.SetContext(ctx, "d1", "")
	if !errors.Is(err, boom) {
		t.Fatalf("expected session write error, got %v", err)
	}
	if op.Context(ctx) != c || c.DomainID != "d1" {
		t.Fatalf("switch should still apply to the operation, got %+v", op.Context(ctx))
	}
}

func TestResolver_SelectionSource(t *testing.T) {
	ctx := context.Background()
	reg := testRegistry()
	r := NewResolver(ResolverConfig{Lookup: reg, Selection: reg.HostSelection("one.example.com", "en")})

	if got := r.Begin(ctx, nil).Context(ctx); got != (Context{DomainID: "d1", LanguageID: "en"}) {
		t.Fatalf("host selection = %+v", got)
	}
	if got := r.Begin(ctx, &Selection{DomainID: "d2"}).Context(ctx); got.DomainID != "d2" {
		t.Fatalf("explicit selection should win over source, got %+v", got)
	}
}
