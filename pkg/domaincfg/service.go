package domaincfg

import (
	"context"
	"fmt"

	"github.com/bft-labs/domaincfg/pkg/config"
	"github.com/bft-labs/domaincfg/pkg/log"
	"github.com/bft-labs/domaincfg/pkg/naming"
	"github.com/bft-labs/domaincfg/pkg/override"
	"github.com/bft-labs/domaincfg/pkg/scope"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// Service resolves configuration objects against domain and language
// contexts. It is safe for concurrent use; the Operations it creates are
// not.
type Service struct {
	store    storage.Storage
	mapper   *naming.Mapper
	static   *override.Static
	loader   *override.Loader
	resolver *scope.Resolver
	logger   log.Logger
}

// New creates a Service over store.
func New(cfg Config, store storage.Storage, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: storage is required", ErrInvalidConfig)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := log.OrNoop(o.logger)

	if cfg.RememberContext && o.session == nil {
		logger.Warn("remember context enabled without a session store; context changes stay operation-scoped")
	}

	mapper := naming.NewMapper(cfg.policy())
	static := override.NewStatic(cfg.Overrides)

	return &Service{
		store:  store,
		mapper: mapper,
		static: static,
		loader: override.NewLoader(mapper, logger, static, override.FromStorage(store)),
		resolver: scope.NewResolver(scope.ResolverConfig{
			RememberContext: cfg.RememberContext,
			Session:         o.session,
			Lookup:          o.lookup,
			Selection:       o.selection,
			Logger:          logger,
		}),
		logger: logger,
	}, nil
}

// Begin starts an operation. sel is the explicit selection for the
// operation and may be nil.
func (s *Service) Begin(ctx context.Context, sel *scope.Selection) *Operation {
	op := s.resolver.Begin(ctx, sel)
	return &Operation{
		svc:     s,
		factory: config.NewFactory(op, s.store, s.mapper, s.loader, s.logger),
	}
}

// UpdatePolicy replaces the allow and deny lists, the language write
// policy and the static overrides. Operations already running observe the
// change on their next lookup. RememberContext cannot be changed.
func (s *Service) UpdatePolicy(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.RememberContext != s.resolver.Remember() {
		s.logger.Warn("remember context cannot change at runtime; keeping current value",
			log.Bool("remember", s.resolver.Remember()))
	}
	s.mapper.Update(cfg.policy())
	s.static.Replace(cfg.Overrides)
	s.logger.Info("policy updated",
		log.Strings("allow_list", cfg.AllowList),
		log.Strings("deny_list", cfg.DenyList),
		log.Int("overrides", len(cfg.Overrides)))
	return nil
}
