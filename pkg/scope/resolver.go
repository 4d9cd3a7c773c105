package scope

import (
	"context"

	"github.com/bft-labs/domaincfg/pkg/log"
)

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// RememberContext enables reading and writing the session store.
	// Default: false, which makes every context change operation-scoped.
	RememberContext bool

	// Session stores the remembered context. May be nil when
	// RememberContext is false.
	Session SessionStore

	// Lookup validates ids. When nil every non-empty id is accepted.
	Lookup Lookup

	// Selection supplies the explicit selection when Begin is called
	// without one. May be nil.
	Selection SelectionSource

	Logger log.Logger
}

// Resolver creates per-operation context scopes.
type Resolver struct {
	remember  bool
	session   SessionStore
	lookup    Lookup
	selection SelectionSource
	logger    log.Logger
}

// NewResolver creates a Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{
		remember:  cfg.RememberContext && cfg.Session != nil,
		session:   cfg.Session,
		lookup:    cfg.Lookup,
		selection: cfg.Selection,
		logger:    log.OrNoop(cfg.Logger),
	}
}

// Remember reports whether context changes are persisted to the session.
func (r *Resolver) Remember() bool {
	return r.remember
}

// Begin starts an operation scope. sel is the explicit selection for this
// operation; when nil, the configured SelectionSource (if any) is asked.
func (r *Resolver) Begin(ctx context.Context, sel *Selection) *Operation {
	if sel == nil && r.selection != nil {
		if s, ok := r.selection.CurrentSelection(ctx); ok {
			sel = &s
		}
	}
	op := &Operation{resolver: r}
	if sel != nil {
		s := *sel
		op.explicit = &s
	}
	return op
}

// validate clears ids that do not resolve to known entities.
func (r *Resolver) validate(ctx context.Context, domainID, languageID string) Context {
	c := Context{DomainID: domainID, LanguageID: languageID}
	if r.lookup != nil {
		if c.DomainID != "" && !r.lookup.DomainExists(ctx, c.DomainID) {
			r.logger.Warn("unknown domain ignored", log.Domain(c.DomainID))
			c.DomainID = ""
		}
		if c.LanguageID != "" && !r.lookup.LanguageExists(ctx, c.LanguageID) {
			r.logger.Warn("unknown language ignored", log.Language(c.LanguageID))
			c.LanguageID = ""
		}
	}
	return c.Normalize()
}

// remembered reads the session context. Read failures degrade to global.
func (r *Resolver) remembered(ctx context.Context) Context {
	if !r.remember {
		return Global
	}
	domainID, _, err := r.session.Get(ctx, SessionKeyDomain)
	if err != nil {
		r.logger.Warn("read remembered domain", log.Err(err))
		return Global
	}
	if domainID == "" {
		return Global
	}
	languageID, _, err := r.session.Get(ctx, SessionKeyLanguage)
	if err != nil {
		r.logger.Warn("read remembered language", log.Err(err))
		languageID = ""
	}
	return r.validate(ctx, domainID, languageID)
}

// persist writes c to the session, removing empty fields.
func (r *Resolver) persist(ctx context.Context, c Context) error {
	if err := r.store(ctx, SessionKeyDomain, c.DomainID); err != nil {
		return err
	}
	return r.store(ctx, SessionKeyLanguage, c.LanguageID)
}

func (r *Resolver) store(ctx context.Context, key, value string) error {
	if value == "" {
		return r.session.Remove(ctx, key)
	}
	return r.session.Set(ctx, key, value)
}
