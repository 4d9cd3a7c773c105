package scope

import (
	"context"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Domain describes a configured domain record.
type Domain struct {
	ID       string
	Hostname string
}

// Registry is an in-memory Lookup over known domains and languages. A
// registry built without languages accepts any language id, and one built
// without domains accepts any domain id. It is immutable after construction
// and safe for concurrent use.
type Registry struct {
	domains   mapset.Set[string]
	languages mapset.Set[string]
	hosts     map[string]string
	hostnames map[string]string
}

// NewRegistry builds a registry. Domains with an empty id are ignored.
func NewRegistry(domains []Domain, languages []string) *Registry {
	r := &Registry{
		domains:   mapset.NewThreadUnsafeSet[string](),
		languages: mapset.NewThreadUnsafeSet[string](),
		hosts:     make(map[string]string, len(domains)),
		hostnames: make(map[string]string, len(domains)),
	}
	for _, d := range domains {
		if d.ID == "" {
			continue
		}
		r.domains.Add(d.ID)
		if d.Hostname != "" {
			host := strings.ToLower(d.Hostname)
			r.hosts[host] = d.ID
			r.hostnames[d.ID] = host
		}
	}
	for _, l := range languages {
		if l != "" {
			r.languages.Add(l)
		}
	}
	return r
}

// DomainExists reports whether id names a known domain.
func (r *Registry) DomainExists(_ context.Context, id string) bool {
	if id == "" {
		return false
	}
	return r.domains.Cardinality() == 0 || r.domains.Contains(id)
}

// LanguageExists reports whether id names a known language.
func (r *Registry) LanguageExists(_ context.Context, id string) bool {
	if id == "" {
		return false
	}
	return r.languages.Cardinality() == 0 || r.languages.Contains(id)
}

// Hostname returns the hostname configured for a domain id.
func (r *Registry) Hostname(id string) (string, bool) {
	h, ok := r.hostnames[id]
	return h, ok
}

// DomainForHost returns the domain id serving host. Any port suffix is ignored.
func (r *Registry) DomainForHost(host string) (string, bool) {
	host = strings.ToLower(host)
	if i := strings.LastIndexByte(host, ':'); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	id, ok := r.hosts[host]
	return id, ok
}

// Domains returns the known domain ids, sorted.
func (r *Registry) Domains() []string {
	ids := r.domains.ToSlice()
	sort.Strings(ids)
	return ids
}

// Languages returns the known language ids, sorted.
func (r *Registry) Languages() []string {
	ids := r.languages.ToSlice()
	sort.Strings(ids)
	return ids
}

// HostSelection returns a SelectionSource that selects the domain serving
// host, and no selection when host is unknown.
func (r *Registry) HostSelection(host, languageID string) SelectionSource {
	return SelectionFunc(func(context.Context) (Selection, bool) {
		id, ok := r.DomainForHost(host)
		if !ok {
			return Selection{}, false
		}
		return Selection{DomainID: id, LanguageID: languageID}, true
	})
}

var _ Lookup = (*Registry)(nil)
