package config

import (
	"context"
	"fmt"

	"github.com/bft-labs/domaincfg/pkg/log"
	"github.com/bft-labs/domaincfg/pkg/naming"
	"github.com/bft-labs/domaincfg/pkg/override"
	"github.com/bft-labs/domaincfg/pkg/scope"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// cacheKey identifies a cached object within one operation.
type cacheKey struct {
	name    string
	ctx     scope.Context
	mutable bool
}

// Factory creates and caches configuration objects for one operation.
// It provides no locking and must not outlive or be shared across
// operations.
type Factory struct {
	op     *scope.Operation
	store  storage.Storage
	mapper *naming.Mapper
	loader *override.Loader
	logger log.Logger

	cache map[cacheKey]*Config
}

// NewFactory creates a Factory for op.
func NewFactory(op *scope.Operation, store storage.Storage, mapper *naming.Mapper, loader *override.Loader, logger log.Logger) *Factory {
	return &Factory{
		op:     op,
		store:  store,
		mapper: mapper,
		loader: loader,
		logger: log.OrNoop(logger),
		cache:  make(map[cacheKey]*Config),
	}
}

// Operation returns the operation scope the factory belongs to.
func (f *Factory) Operation() *scope.Operation {
	return f.op
}

// Get returns the immutable object for name under the current context.
// Names with no stored data yield a new, empty object.
func (f *Factory) Get(ctx context.Context, name string) (*Config, error) {
	return f.load(ctx, name, false)
}

// GetEditable returns the mutable object for name under the current context.
func (f *Factory) GetEditable(ctx context.Context, name string) (*Config, error) {
	return f.load(ctx, name, true)
}

func (f *Factory) load(ctx context.Context, name string, mutable bool) (*Config, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	cx := f.op.Context(ctx)
	key := cacheKey{name: name, ctx: cx, mutable: mutable}
	if c, ok := f.cache[key]; ok {
		if c.strategy.stale(c) {
			if err := f.resolve(ctx, c); err != nil {
				return nil, err
			}
		}
		return c, nil
	}

	c := newConfig(f, name, mutable)
	if err := f.resolve(ctx, c); err != nil {
		return nil, err
	}
	f.cache[key] = c
	return c, nil
}

// LoadMultiple returns the objects for the names that have stored data,
// keyed by name. Reads and override lookups are batched.
func (f *Factory) LoadMultiple(ctx context.Context, names []string, mutable bool) (map[string]*Config, error) {
	cx := f.op.Context(ctx)
	out := make(map[string]*Config, len(names))

	var pending []string
	for _, name := range names {
		if name == "" {
			continue
		}
		if c, ok := f.cache[cacheKey{name: name, ctx: cx, mutable: mutable}]; ok && !c.isNew && !c.strategy.stale(c) {
			out[name] = c
			continue
		}
		pending = append(pending, name)
	}
	if len(pending) == 0 {
		return out, nil
	}

	stored, err := f.store.ReadMultiple(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("read %d configuration objects: %w", len(pending), err)
	}
	if len(stored) == 0 {
		return out, nil
	}

	existing := make([]string, 0, len(stored))
	for _, name := range pending {
		if _, ok := stored[name]; ok {
			existing = append(existing, name)
		}
	}
	overrides, err := f.loader.Resolve(ctx, existing, cx)
	if err != nil {
		return nil, err
	}

	for _, name := range existing {
		key := cacheKey{name: name, ctx: cx, mutable: mutable}
		c, ok := f.cache[key]
		if !ok {
			c = newConfig(f, name, mutable)
			f.cache[key] = c
		}
		c.materialize(cx, f.op.Version(), stored[name], true, overrides[name])
		out[name] = c
	}
	return out, nil
}

// SwitchContext changes the operation's context and re-resolves every
// mutable object handed out so far.
func (f *Factory) SwitchContext(ctx context.Context, domainID, languageID string) (scope.Context, error) {
	cx, switchErr := f.op.SetContext(ctx, domainID, languageID)
	for _, c := range f.cache {
		if !c.strategy.stale(c) {
			continue
		}
		if err := f.resolve(ctx, c); err != nil {
			return cx, err
		}
	}
	return cx, switchErr
}

// Reset drops every cached object for name, across contexts and
// mutability. Objects already handed out stay usable.
func (f *Factory) Reset(name string) {
	for key := range f.cache {
		if key.name == name {
			delete(f.cache, key)
		}
	}
}

// keep caches c under its current context.
func (f *Factory) keep(c *Config) {
	f.cache[cacheKey{name: c.base, ctx: c.ctx, mutable: c.strategy.mutable()}] = c
}

// resolve reads the base payload and override for c under the current
// context.
func (f *Factory) resolve(ctx context.Context, c *Config) error {
	cx := f.op.Context(ctx)
	original, exists, err := f.store.Read(ctx, c.base)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.base, err)
	}
	overrides, err := f.loader.Resolve(ctx, []string{c.base}, cx)
	if err != nil {
		return err
	}
	c.materialize(cx, f.op.Version(), original, exists, overrides[c.base])
	f.logger.Debug("configuration resolved",
		log.Name(c.base), log.Domain(cx.DomainID), log.Language(cx.LanguageID), log.Bool("override", c.HasOverride()))
	return nil
}
