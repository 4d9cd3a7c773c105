package domaincfg

import (
	"context"

	"github.com/bft-labs/domaincfg/pkg/config"
	"github.com/bft-labs/domaincfg/pkg/scope"
)

// Operation is one logical unit of work, such as a request or a CLI
// command. Configuration objects obtained from it are cached for its
// lifetime. It is not safe for concurrent use.
type Operation struct {
	svc     *Service
	factory *config.Factory
}

// Context returns the active context.
func (o *Operation) Context(ctx context.Context) scope.Context {
	return o.factory.Operation().Context(ctx)
}

// SetContext switches the active context. Unknown ids are cleared. Every
// editable object handed out by this operation is re-resolved against the
// new context; unsaved changes are kept. A non-nil error reports a failed
// session write; the switch itself has taken effect.
func (o *Operation) SetContext(ctx context.Context, domainID, languageID string) (scope.Context, error) {
	return o.factory.SwitchContext(ctx, domainID, languageID)
}

// Get returns the read-only object for name.
func (o *Operation) Get(ctx context.Context, name string) (*config.Config, error) {
	return o.factory.Get(ctx, name)
}

// GetEditable returns the editable object for name.
func (o *Operation) GetEditable(ctx context.Context, name string) (*config.Config, error) {
	return o.factory.GetEditable(ctx, name)
}

// LoadMultiple returns the objects for the names that have stored data.
func (o *Operation) LoadMultiple(ctx context.Context, names []string, mutable bool) (map[string]*config.Config, error) {
	return o.factory.LoadMultiple(ctx, names, mutable)
}

// CandidateNames returns the storage names consulted when reading base
// under the active context, most specific first.
func (o *Operation) CandidateNames(ctx context.Context, base string) []string {
	return o.svc.mapper.CandidateNames(base, o.Context(ctx))
}

// WriteTarget returns the storage name a save of base writes to under the
// active context.
func (o *Operation) WriteTarget(ctx context.Context, base string) string {
	return o.svc.mapper.WriteTarget(base, o.Context(ctx))
}

// CacheSuffix returns the key suffix that partitions caches by context.
func (o *Operation) CacheSuffix(ctx context.Context) string {
	return o.Context(ctx).CacheSuffix()
}
