package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bft-labs/domaincfg/internal/cliconfig"
)

const longHelp = `Read and write configuration objects per domain and language.

Configuration objects live under base names such as system.site. When a
domain (and optionally a language) is active, reads return the most
specific stored variant and writes go to a domain-qualified name:

  domain.config.<domain>.<language>.<base>
  domain.config.<domain>.<base>

Settings are read from the config file, then DOMAINCFG_* environment
variables, then flags.`

var exampleUsage = strings.TrimSpace(`
  domaincfg get system.site --domain d1 --language fr
  domaincfg set system.site name="Domain one" --domain d1
  domaincfg names system.site --domain d1 --language fr
  domaincfg switch d1 fr --remember
  domaincfg watch system.site --host one.example.com
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newApp() *app {
	return &app{cfg: cliconfig.DefaultConfig()}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "domaincfg",
		Short:         "Per-domain and per-language configuration overrides",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.cfgPath, "config", "", "path to config file (default: $HOME/.domaincfg/config.toml)")
	f.StringVar(&a.cfg.StorageDir, "storage-dir", a.cfg.StorageDir, "configuration storage directory")
	f.StringVar(&a.cfg.Backend, "backend", a.cfg.Backend, "storage backend: file, badger or memory")
	f.StringVar(&a.cfg.SessionDir, "session-dir", a.cfg.SessionDir, "directory holding session files")
	f.StringVar(&a.cfg.Session, "session", a.cfg.Session, "session id used to remember the context")
	f.BoolVar(&a.cfg.RememberContext, "remember", a.cfg.RememberContext, "remember context switches across invocations")
	f.BoolVar(&a.cfg.PersistLanguage, "persist-language", a.cfg.PersistLanguage, "write language-qualified overrides when a language is active")
	f.StringSliceVar(&a.cfg.AllowList, "allow-list", nil, "base name patterns that may be overridden (replaces the settings file list)")
	f.StringSliceVar(&a.cfg.DenyList, "deny-list", nil, "base name patterns that are never overridden")
	f.StringVar(&a.cfg.Domain, "domain", "", "domain id for this invocation")
	f.StringVar(&a.cfg.Language, "language", "", "language id for this invocation")
	f.StringVar(&a.cfg.Host, "host", "", "select the domain serving this hostname")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn, error")

	root.AddCommand(
		newGetCommand(a),
		newSetCommand(a),
		newNamesCommand(a),
		newContextCommand(a),
		newSwitchCommand(a),
		newListCommand(a),
		newDeleteCommand(a),
		newSessionCommand(a),
		newWatchCommand(a),
	)
	return root
}

// execute runs the command and closes the storage backend whether or not
// the command failed.
func execute(a *app, cmd *cobra.Command) error {
	err := cmd.Execute()
	if cerr := a.close(); cerr != nil && err == nil {
		err = fmt.Errorf("close storage: %w", cerr)
	}
	return err
}

func main() {
	a := newApp()
	if err := execute(a, newRootCommand(a)); err != nil {
		log := cliconfig.Logger("error")
		log.Error().Err(err).Msg("domaincfg")
		os.Exit(1)
	}
}
