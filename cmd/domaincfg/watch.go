package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/domaincfg/internal/cliconfig"
	"github.com/bft-labs/domaincfg/internal/watch"
	"github.com/bft-labs/domaincfg/pkg/log"
)

func newWatchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <key>...",
		Short: "Print configuration objects and print them again whenever storage or settings change",
		Long: `Print configuration objects and print them again whenever storage or settings change.

Changes to the settings file reload the allow list, the deny list and the
static overrides without restarting. Storage changes are detected for the
file backend only.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, args)
		},
	}
	cmd.Flags().DurationVar(&a.cfg.WatchDebounce, "debounce", a.cfg.WatchDebounce, "quiet period before reprinting")
	return cmd
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, keys []string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	show := func(ctx context.Context) {
		// Each refresh is its own operation so context and caches start clean.
		op := svc.Begin(ctx, a.cfg.Selection())
		fmt.Fprintf(out, "# context: %s\n", op.Context(ctx))
		if err := printObjects(ctx, out, op, keys, false); err != nil {
			a.logger.Warn("print objects", log.Err(err))
		}
		fmt.Fprintln(out, "---")
	}

	settings := ""
	if a.cfgFile != "" {
		settings = filepath.Clean(a.cfgFile)
	}

	w, err := watch.New(watch.Config{Debounce: a.cfg.WatchDebounce, Logger: a.logger}, func(ctx context.Context, paths []string) {
		for _, p := range paths {
			if p == settings {
				a.reloadPolicy()
				break
			}
		}
		show(ctx)
	})
	if err != nil {
		return err
	}

	watching := 0
	if settings != "" {
		if err := w.AddFile(settings); err != nil {
			a.logger.Warn("settings file not watched", log.String("path", settings), log.Err(err))
		} else {
			watching++
		}
	}
	if a.cfg.Backend == cliconfig.BackendFile {
		if err := w.AddDir(a.cfg.StorageDir); err != nil {
			a.logger.Warn("storage not watched", log.String("dir", a.cfg.StorageDir), log.Err(err))
		} else {
			watching++
		}
	}
	if watching == 0 {
		w.Close()
		return errors.New("nothing to watch: no settings file and no file storage directory")
	}

	show(ctx)
	a.logger.Info("watching for changes", log.Strings("keys", keys))
	return w.Run(ctx)
}

// reloadPolicy re-reads the settings file and applies the override policy.
// Flags and environment keep their precedence.
func (a *app) reloadPolicy() {
	base := a.cfg
	if !a.changed["allow-list"] {
		base.AllowList = nil
	}
	if !a.changed["deny-list"] {
		base.DenyList = nil
	}
	base.Overrides = nil
	if !a.changed["persist-language"] {
		base.PersistLanguage = false
	}
	next, err := a.resolve(base)
	if err != nil {
		a.logger.Error("reload settings", log.Err(err))
		return
	}
	if err := a.svc.UpdatePolicy(next.ServiceConfig()); err != nil {
		a.logger.Error("apply settings", log.Err(err))
		return
	}
	a.cfg.AllowList = next.AllowList
	a.cfg.DenyList = next.DenyList
	a.cfg.Overrides = next.Overrides
	a.cfg.PersistLanguage = next.PersistLanguage
}
