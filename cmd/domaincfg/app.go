package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	badgerAdapter "github.com/bft-labs/domaincfg/internal/adapters/badger"
	"github.com/bft-labs/domaincfg/internal/adapters/fs"
	"github.com/bft-labs/domaincfg/internal/cliconfig"
	"github.com/bft-labs/domaincfg/pkg/domaincfg"
	"github.com/bft-labs/domaincfg/pkg/log"
	"github.com/bft-labs/domaincfg/pkg/scope"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// store is what the CLI needs from a backend.
type store interface {
	storage.Storage
	storage.Lister
}

// app carries the state of one CLI invocation.
type app struct {
	cfg     cliconfig.Config
	cfgPath string
	cfgFile string
	changed map[string]bool

	log     zerolog.Logger
	logger  log.Logger
	store   store
	closeFn func() error
	svc     *domaincfg.Service
	reg     *scope.Registry
}

// load resolves settings (file, then env, then flags) and validates them.
func (a *app) load(cmd *cobra.Command) error {
	a.cfgFile = a.cfgPath
	if a.cfgFile == "" {
		a.cfgFile = cliconfig.DefaultConfigPath()
	}

	a.changed = map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { a.changed[f.Name] = true })

	cfg, err := a.resolve(a.cfg)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = cliconfig.Logger(a.cfg.LogLevel)
	a.logger = log.NewZerologAdapterWithLogger(a.log)
	a.log.Debug().Str("config", a.cfgFile).Str("backend", a.cfg.Backend).Msg("configuration")
	return nil
}

// resolve applies the settings file and environment on top of cfg.
func (a *app) resolve(cfg cliconfig.Config) (cliconfig.Config, error) {
	if a.cfgFile != "" && cliconfig.FileExists(a.cfgFile) {
		fc, err := cliconfig.LoadFileConfig(a.cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&cfg, fc, a.changed); err != nil {
			return cfg, err
		}
	}
	if err := cliconfig.ApplyEnvConfig(&cfg, a.changed); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// service opens the storage backend and builds the Service on first use.
func (a *app) service() (*domaincfg.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	if err := a.openStore(); err != nil {
		return nil, err
	}

	var opts []domaincfg.Option
	opts = append(opts, domaincfg.WithLogger(a.logger))

	if a.cfg.RememberContext {
		session, err := fs.NewSessionFile(a.cfg.SessionDir, a.cfg.Session)
		if err != nil {
			return nil, err
		}
		opts = append(opts, domaincfg.WithSessionStore(session))
	}

	a.reg = a.cfg.Registry()
	if a.reg != nil {
		opts = append(opts, domaincfg.WithLookup(a.reg))
		if a.cfg.Host != "" {
			opts = append(opts, domaincfg.WithSelectionSource(a.reg.HostSelection(a.cfg.Host, a.cfg.Language)))
		}
	} else if a.cfg.Host != "" {
		a.logger.Warn("host selection needs [[domains]] with hostnames; ignoring --host", log.String("host", a.cfg.Host))
	}

	svc, err := domaincfg.New(a.cfg.ServiceConfig(), a.store, opts...)
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

// begin starts the operation for this invocation.
func (a *app) begin(ctx context.Context) (*domaincfg.Operation, error) {
	svc, err := a.service()
	if err != nil {
		return nil, err
	}
	return svc.Begin(ctx, a.cfg.Selection()), nil
}

func (a *app) openStore() error {
	switch a.cfg.Backend {
	case cliconfig.BackendFile:
		a.store = fs.NewFileStorage(a.cfg.StorageDir)
	case cliconfig.BackendBadger:
		bcfg := badgerAdapter.DefaultConfig(a.cfg.StorageDir)
		bcfg.Logger = a.logger
		db, err := badgerAdapter.Open(bcfg)
		if err != nil {
			return err
		}
		a.store = db
		a.closeFn = db.Close
	case cliconfig.BackendMemory:
		a.store = storage.NewMemory()
	default:
		return fmt.Errorf("unknown backend %q", a.cfg.Backend)
	}
	return nil
}

func (a *app) close() error {
	if a.closeFn == nil {
		return nil
	}
	err := a.closeFn()
	a.closeFn = nil
	return err
}

var (
	// errNotFound reports a base name with no stored data.
	errNotFound = errors.New("not found")

	// errSwitcherDisabled reports a switch from a path outside
	// switcher_paths.
	errSwitcherDisabled = errors.New("context switcher is not enabled for this path")
)
