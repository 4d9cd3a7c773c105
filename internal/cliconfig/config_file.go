package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	StorageDir      string                    `toml:"storage_dir"`
	Backend         string                    `toml:"backend"`
	SessionDir      string                    `toml:"session_dir"`
	Session         string                    `toml:"session"`
	RememberContext *bool                     `toml:"remember_context"`
	PersistLanguage *bool                     `toml:"persist_language"`
	AllowList       []string                  `toml:"allow_list"`
	DenyList        []string                  `toml:"deny_list"`
	Languages       []string                  `toml:"languages"`
	Domains         []FileDomain              `toml:"domains"`
	Overrides       map[string]map[string]any `toml:"overrides"`
	SwitcherPaths   []string                  `toml:"switcher_paths"`
	LogLevel        string                    `toml:"log_level"`
	WatchDebounce   string                    `toml:"watch_debounce"`
}

// FileDomain is a [[domains]] table.
type FileDomain struct {
	ID       string `toml:"id"`
	Hostname string `toml:"hostname"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.domaincfg/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".domaincfg", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("storage-dir", fc.StorageDir, &cfg.StorageDir)
	s.setString("backend", fc.Backend, &cfg.Backend)
	s.setString("session-dir", fc.SessionDir, &cfg.SessionDir)
	s.setString("session", fc.Session, &cfg.Session)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setBool("remember", fc.RememberContext, &cfg.RememberContext)
	s.setBool("persist-language", fc.PersistLanguage, &cfg.PersistLanguage)

	s.setStrings("allow-list", fc.AllowList, &cfg.AllowList)
	s.setStrings("deny-list", fc.DenyList, &cfg.DenyList)
	s.setStrings("languages", fc.Languages, &cfg.Languages)
	s.setStrings("switcher-paths", fc.SwitcherPaths, &cfg.SwitcherPaths)

	if err := s.setDuration("debounce", fc.WatchDebounce, &cfg.WatchDebounce); err != nil {
		return err
	}

	if len(fc.Domains) > 0 {
		cfg.Domains = make([]Domain, 0, len(fc.Domains))
		for _, d := range fc.Domains {
			cfg.Domains = append(cfg.Domains, Domain{ID: d.ID, Hostname: d.Hostname})
		}
	}
	if len(fc.Overrides) > 0 {
		cfg.Overrides = fc.Overrides
	}

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
