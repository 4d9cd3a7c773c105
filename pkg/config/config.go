package config

import (
	"context"
	"fmt"

	"github.com/bft-labs/domaincfg/pkg/log"
	"github.com/bft-labs/domaincfg/pkg/override"
	"github.com/bft-labs/domaincfg/pkg/scope"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// Config is a configuration object bound to a base name. Obtain one from a
// Factory. It is not safe for concurrent use.
type Config struct {
	base     string
	name     string
	factory  *Factory
	strategy mergeStrategy

	ctx     scope.Context
	version uint64

	original storage.Payload
	hit      override.Hit
	data     storage.Payload
	edits    []edit
	isNew    bool
}

// edit is a local change, replayed when a mutable object re-resolves.
type edit struct {
	path  string
	value any
	clear bool
	all   storage.Payload
}

func (e edit) apply(p storage.Payload) storage.Payload {
	switch {
	case e.all != nil:
		return e.all.Clone()
	case e.clear:
		p.Clear(e.path)
	default:
		p.Set(e.path, e.value)
	}
	return p
}

func newConfig(f *Factory, base string, mutable bool) *Config {
	return &Config{
		base:     base,
		name:     base,
		factory:  f,
		strategy: strategyFor(mutable),
	}
}

// materialize computes the effective payload for context c.
func (c *Config) materialize(cx scope.Context, version uint64, original storage.Payload, exists bool, hit override.Hit) {
	c.ctx = cx
	c.version = version
	c.isNew = !exists
	c.original = original
	c.hit = hit

	data := original.Overlay(hit.Payload)
	for _, e := range c.edits {
		data = e.apply(data)
	}
	c.data = data
}

// Name returns the base name. It never exposes the context-specific
// storage name.
func (c *Config) Name() string {
	return c.name
}

// Context returns the context the effective payload was resolved for.
func (c *Config) Context() scope.Context {
	return c.ctx
}

// IsNew reports whether nothing is stored under the base name yet.
func (c *Config) IsNew() bool {
	return c.isNew
}

// Mutable reports whether the object can be modified and saved.
func (c *Config) Mutable() bool {
	return c.strategy.mutable()
}

// HasOverride reports whether a contextual override contributed to the
// effective payload.
func (c *Config) HasOverride() bool {
	return c.hit.Payload != nil
}

// Get returns the effective value at a dotted path. An empty path returns
// the whole payload.
func (c *Config) Get(path string) (any, bool) {
	if path == "" {
		return c.Data(), true
	}
	return c.data.Get(path)
}

// GetOriginal returns the value at path as stored under the base name,
// ignoring overrides and unsaved changes.
func (c *Config) GetOriginal(path string) (any, bool) {
	if c.original == nil {
		return nil, false
	}
	if path == "" {
		return c.original.Clone(), true
	}
	return c.original.Get(path)
}

// Data returns a copy of the effective payload.
func (c *Config) Data() storage.Payload {
	return c.data.Clone()
}

// Override returns a copy of the resolved override payload, or nil.
func (c *Config) Override() storage.Payload {
	return c.hit.Payload.Clone()
}

// Set changes the value at a dotted path.
func (c *Config) Set(path string, value any) error {
	return c.record(edit{path: path, value: value})
}

// Clear removes the value at a dotted path.
func (c *Config) Clear(path string) error {
	return c.record(edit{path: path, clear: true})
}

// SetData replaces the whole payload.
func (c *Config) SetData(data storage.Payload) error {
	if data == nil {
		data = storage.Payload{}
	}
	return c.record(edit{all: data.Clone()})
}

func (c *Config) record(e edit) error {
	if !c.strategy.mutable() {
		return ErrImmutable
	}
	if e.all == nil && e.path == "" {
		return ErrEmptyName
	}
	c.data = e.apply(c.data)
	c.edits = append(c.edits, e)
	return nil
}

// Refresh re-resolves the effective payload against the operation's
// current context, keeping unsaved changes. Immutable objects keep their
// snapshot.
func (c *Config) Refresh(ctx context.Context) error {
	if !c.strategy.mutable() {
		return nil
	}
	return c.factory.resolve(ctx, c)
}

// Save writes the object to the name selected for the current context.
//
// The written payload is the stored base payload, the payload already
// stored under the write target and the local changes. Overrides read from
// settings or from a more specific name are never written. When nothing is
// stored under the base name yet and the write is redirected, the base
// payload with the local changes is first written under the base name so a
// global default always exists. Name reports the base name again on every
// exit path. Storage failures are wrapped in ErrSaveFailed.
func (c *Config) Save(ctx context.Context) (*Config, error) {
	if !c.strategy.mutable() {
		return c, ErrImmutable
	}
	if c.strategy.stale(c) {
		if err := c.Refresh(ctx); err != nil {
			return c, err
		}
	}

	f := c.factory
	base := c.base
	defer func() { c.name = base }()

	target := f.mapper.WriteTarget(base, c.ctx)
	current, err := c.storedAt(ctx, target)
	if err != nil {
		return c, fmt.Errorf("%w: read %s: %w", ErrSaveFailed, target, err)
	}
	data := c.persistable(current)

	if c.isNew && target != base {
		global := c.persistable(nil)
		if err := f.store.Write(ctx, base, global); err != nil {
			f.logger.Error("save global default failed", log.Name(base), log.Err(err))
			return c, fmt.Errorf("%w: write %s: %w", ErrSaveFailed, base, err)
		}
	}

	c.name = target
	if err := f.store.Write(ctx, target, data); err != nil {
		f.logger.Error("save failed", log.Name(base), log.String("target", target), log.Err(err))
		return c, fmt.Errorf("%w: write %s: %w", ErrSaveFailed, target, err)
	}

	f.logger.Info("configuration saved",
		log.Name(base), log.String("target", target), log.Domain(c.ctx.DomainID), log.Language(c.ctx.LanguageID))

	c.edits = nil
	c.isNew = false
	f.Reset(base)
	if err := f.resolve(ctx, c); err != nil {
		f.logger.Warn("refresh after save failed", log.Name(base), log.Err(err))
	}
	f.keep(c)
	return c, nil
}

// storedAt returns the payload currently stored under the write target.
// The base name carries no separate target payload.
func (c *Config) storedAt(ctx context.Context, target string) (storage.Payload, error) {
	if target == c.base {
		return nil, nil
	}
	if c.hit.Stored() && c.hit.Name == target {
		return c.hit.Payload, nil
	}
	p, _, err := c.factory.store.Read(ctx, target)
	return p, err
}

// persistable builds a payload for storage from the stored base payload,
// current and the local changes.
func (c *Config) persistable(current storage.Payload) storage.Payload {
	data := c.original.Overlay(current)
	for _, e := range c.edits {
		data = e.apply(data)
	}
	return data
}
