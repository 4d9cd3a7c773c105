package scope

import (
	"context"
	"fmt"

	"github.com/bft-labs/domaincfg/pkg/log"
)

// Operation is the context scope of one logical operation. It is not safe
// for concurrent use and must be discarded when the operation ends.
type Operation struct {
	resolver *Resolver
	explicit *Selection

	resolved bool
	current  Context
	version  uint64
}

// Context returns the active context, resolving and memoizing it on first
// use. Later changes to the session are not observed by this operation.
func (o *Operation) Context(ctx context.Context) Context {
	if o.resolved {
		return o.current
	}
	switch {
	case o.explicit != nil:
		o.current = o.resolver.validate(ctx, o.explicit.DomainID, o.explicit.LanguageID)
	default:
		o.current = o.resolver.remembered(ctx)
	}
	o.resolved = true
	return o.current
}

// SetContext switches the active context. Ids that do not resolve to known
// entities are cleared rather than rejected. The new context applies to the
// rest of this operation immediately; when remembering is enabled it is
// also written to the session for later operations. The returned error only
// reports a failed session write, in which case the in-operation switch
// has still taken effect.
func (o *Operation) SetContext(ctx context.Context, domainID, languageID string) (Context, error) {
	c := o.resolver.validate(ctx, domainID, languageID)
	if !o.resolved || c != o.current {
		o.version++
	}
	o.current = c
	o.resolved = true

	o.resolver.logger.Info("context switched",
		log.Domain(c.DomainID), log.Language(c.LanguageID), log.Bool("remembered", o.resolver.remember))

	if !o.resolver.remember {
		return c, nil
	}
	if err := o.resolver.persist(ctx, c); err != nil {
		return c, fmt.Errorf("remember context: %w", err)
	}
	return c, nil
}

// Version increases every time SetContext changes the active context.
// Mutable configuration objects compare it to detect a context switch.
func (o *Operation) Version() uint64 {
	return o.version
}
