// Package naming maps a base configuration name and a context to the
// storage names that are read (most specific first) and the single storage
// name that is written.
//
// Override names follow a fixed wire format, dot-delimited with no escaping:
//
//	domain.config.<domain>.<language>.<base>
//	domain.config.<domain>.<base>
package naming

import (
	"strings"
	"sync"

	"github.com/bft-labs/domaincfg/pkg/pattern"
	"github.com/bft-labs/domaincfg/pkg/scope"
)

// Prefix starts every override name.
const Prefix = "domain.config"

// DefaultDenyList holds names that are always stored globally: the
// extension registry, domain and alias records, and override records
// themselves.
var DefaultDenyList = []string{
	"core.extension",
	"domain.record.*",
	"domain_alias.*",
	Prefix + ".*",
}

// recordNamespaces are the first two segments of names that describe
// domain or override records.
var recordNamespaces = []string{"domain.record", Prefix}

// DomainName returns the domain-only override name for base.
func DomainName(domainID, base string) string {
	return Prefix + "." + domainID + "." + base
}

// LanguageName returns the language-qualified override name for base.
func LanguageName(domainID, languageID, base string) string {
	return Prefix + "." + domainID + "." + languageID + "." + base
}

// IsRecordNamespace reports whether name's first two dotted segments denote
// domain or override records. Looking up overrides for such names would
// recurse into the override records themselves.
func IsRecordNamespace(name string) bool {
	for _, ns := range recordNamespaces {
		if name == ns || strings.HasPrefix(name, ns+".") {
			return true
		}
	}
	return false
}

// Policy controls which names take part in contextual overriding.
type Policy struct {
	// AllowList, when non-empty, restricts overriding to matching names.
	AllowList []string

	// DenyList names are always resolved globally. DefaultDenyList is
	// always applied in addition.
	DenyList []string

	// PersistLanguage writes to the language-qualified name when the
	// context has a language. Default: false, so saves land on the
	// domain-only name and language variants are read-only.
	PersistLanguage bool
}

// Mapper computes candidate and write-target names. It is safe for
// concurrent use; Update swaps the policy atomically.
type Mapper struct {
	mu              sync.RWMutex
	allow           *pattern.Set
	deny            *pattern.Set
	persistLanguage bool
}

// NewMapper creates a Mapper for policy.
func NewMapper(policy Policy) *Mapper {
	m := &Mapper{}
	m.Update(policy)
	return m
}

// Update replaces the mapper's policy.
func (m *Mapper) Update(policy Policy) {
	deny := make([]string, 0, len(DefaultDenyList)+len(policy.DenyList))
	deny = append(deny, DefaultDenyList...)
	deny = append(deny, policy.DenyList...)

	allow := pattern.NewSet(policy.AllowList...)
	denySet := pattern.NewSet(deny...)

	m.mu.Lock()
	m.allow = allow
	m.deny = denySet
	m.persistLanguage = policy.PersistLanguage
	m.mu.Unlock()
}

// Policy returns the active policy, with the default deny list expanded.
func (m *Mapper) Policy() Policy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Policy{
		AllowList:       m.allow.Strings(),
		DenyList:        m.deny.Strings(),
		PersistLanguage: m.persistLanguage,
	}
}

// Overridable reports whether base may have contextual variants.
func (m *Mapper) Overridable(base string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.overridable(base)
}

func (m *Mapper) overridable(base string) bool {
	if m.deny.AnyMatches(base) {
		return false
	}
	if m.allow.Len() > 0 && !m.allow.AnyMatches(base) {
		return false
	}
	return true
}

// CandidateNames returns the names to consult for base under c, most
// specific first. The last element is always base.
func (m *Mapper) CandidateNames(base string, c scope.Context) []string {
	c = c.Normalize()
	if c.IsGlobal() || !m.Overridable(base) {
		return []string{base}
	}
	names := make([]string, 0, 3)
	if c.LanguageID != "" {
		names = append(names, LanguageName(c.DomainID, c.LanguageID, base))
	}
	return append(names, DomainName(c.DomainID, base), base)
}

// WriteTarget returns the name a save of base under c is written to.
func (m *Mapper) WriteTarget(base string, c scope.Context) string {
	c = c.Normalize()
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c.IsGlobal() || !m.overridable(base) {
		return base
	}
	if m.persistLanguage && c.LanguageID != "" {
		return LanguageName(c.DomainID, c.LanguageID, base)
	}
	return DomainName(c.DomainID, base)
}
