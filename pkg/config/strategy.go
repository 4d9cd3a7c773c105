package config

// mergeStrategy decides when an object recomputes its effective payload.
type mergeStrategy interface {
	mutable() bool
	// stale reports whether the context the object was materialized
	// under is no longer the operation's context.
	stale(c *Config) bool
}

// snapshot never re-resolves: the context is fixed at construction.
type snapshot struct{}

func (snapshot) mutable() bool { return false }

func (snapshot) stale(*Config) bool { return false }

// live re-resolves whenever the operation switches context.
type live struct{}

func (live) mutable() bool { return true }

func (live) stale(c *Config) bool {
	return c.factory.op.Version() != c.version
}

func strategyFor(mutable bool) mergeStrategy {
	if mutable {
		return live{}
	}
	return snapshot{}
}
