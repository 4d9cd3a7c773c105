package domaincfg

import (
	"fmt"
	"strings"

	"github.com/bft-labs/domaincfg/pkg/naming"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// Config holds the settings of a Service.
type Config struct {
	// RememberContext persists context switches to the session store so
	// later operations start in the same context.
	// Default: false
	RememberContext bool

	// PersistLanguage redirects writes made under a language to the
	// language-qualified name instead of the domain-only name.
	// Default: false
	PersistLanguage bool

	// AllowList restricts overrides to matching base names when non-empty.
	AllowList []string

	// DenyList excludes matching base names from overrides, in addition
	// to naming.DefaultDenyList.
	DenyList []string

	// Overrides are static override payloads keyed by context-qualified
	// name. They take precedence over stored overrides at the same level.
	Overrides map[string]storage.Payload
}

// Validate checks the configuration.
func (c Config) Validate() error {
	for _, p := range c.AllowList {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: empty allow list pattern", ErrInvalidConfig)
		}
	}
	for _, p := range c.DenyList {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: empty deny list pattern", ErrInvalidConfig)
		}
	}
	for name := range c.Overrides {
		if err := storage.ValidateName(name); err != nil {
			return fmt.Errorf("%w: override %q: %w", ErrInvalidConfig, name, err)
		}
		if !strings.HasPrefix(name, naming.Prefix+".") {
			return fmt.Errorf("%w: override %q is not under %s", ErrInvalidConfig, name, naming.Prefix)
		}
	}
	return nil
}

func (c Config) policy() naming.Policy {
	return naming.Policy{
		AllowList:       c.AllowList,
		DenyList:        c.DenyList,
		PersistLanguage: c.PersistLanguage,
	}
}
