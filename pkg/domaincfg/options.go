package domaincfg

import (
	"github.com/bft-labs/domaincfg/pkg/log"
	"github.com/bft-labs/domaincfg/pkg/scope"
)

// Option configures optional behavior of a Service.
type Option func(*options)

type options struct {
	logger    log.Logger
	session   scope.SessionStore
	lookup    scope.Lookup
	selection scope.SelectionSource
}

// WithLogger sets a logger for structured logging.
// If not provided, a no-op logger is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSessionStore sets where the remembered context is kept. Without a
// session store Config.RememberContext has no effect.
func WithSessionStore(session scope.SessionStore) Option {
	return func(o *options) {
		o.session = session
	}
}

// WithLookup sets the validator for domain and language ids.
// If not provided, every non-empty id is accepted.
func WithLookup(lookup scope.Lookup) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// WithSelectionSource sets the source of the explicit selection used when
// Begin is called without one, such as a hostname mapping.
func WithSelectionSource(source scope.SelectionSource) Option {
	return func(o *options) {
		o.selection = source
	}
}
