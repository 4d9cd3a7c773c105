package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bft-labs/domaincfg/pkg/domaincfg"
	"github.com/bft-labs/domaincfg/pkg/scope"
	"github.com/bft-labs/domaincfg/pkg/storage"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// DefaultSwitcherPaths are the admin paths where the context switcher is
// shown.
var DefaultSwitcherPaths = []string{
	"/admin/appearance",
	"/admin/config/system/site-information",
}

// Domain is a configured domain.
type Domain struct {
	ID       string
	Hostname string
}

// Config holds CLI configuration for domaincfg.
type Config struct {
	StorageDir string
	Backend    string
	SessionDir string
	Session    string

	RememberContext bool
	PersistLanguage bool

	AllowList []string
	DenyList  []string
	Overrides map[string]map[string]any

	Domains       []Domain
	Languages     []string
	SwitcherPaths []string

	LogLevel      string
	WatchDebounce time.Duration

	// Per-invocation selection. Not read from the settings file.
	Domain   string
	Language string
	Host     string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	home := defaultHome()
	return Config{
		StorageDir:    filepath.Join(home, "storage"),
		Backend:       BackendFile,
		SessionDir:    filepath.Join(home, "sessions"),
		Session:       "default",
		SwitcherPaths: append([]string(nil), DefaultSwitcherPaths...),
		LogLevel:      "info",
		WatchDebounce: 500 * time.Millisecond,
	}
}

func defaultHome() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".domaincfg")
	}
	return ".domaincfg"
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendBadger:
		if c.StorageDir == "" {
			return fmt.Errorf("storage-dir is required for the %s backend", c.Backend)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendFile, BackendBadger, BackendMemory)
	}

	if c.RememberContext {
		if c.SessionDir == "" {
			return fmt.Errorf("session-dir is required when remembering context")
		}
		if err := storage.ValidateName(c.Session); err != nil {
			return fmt.Errorf("session %q: %w", c.Session, err)
		}
	}

	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch debounce must be positive")
	}

	seen := make(map[string]bool, len(c.Domains))
	for _, d := range c.Domains {
		if d.ID == "" {
			return fmt.Errorf("domain id is required")
		}
		if strings.Contains(d.ID, ".") {
			return fmt.Errorf("domain id %q must not contain dots", d.ID)
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate domain %q", d.ID)
		}
		seen[d.ID] = true
	}
	for _, l := range c.Languages {
		if l == "" || strings.Contains(l, ".") {
			return fmt.Errorf("invalid language id %q", l)
		}
	}

	sc := c.ServiceConfig()
	return sc.Validate()
}

// ServiceConfig returns the library configuration.
func (c *Config) ServiceConfig() domaincfg.Config {
	var overrides map[string]storage.Payload
	if len(c.Overrides) > 0 {
		overrides = make(map[string]storage.Payload, len(c.Overrides))
		for name, p := range c.Overrides {
			overrides[name] = storage.Payload(p)
		}
	}
	return domaincfg.Config{
		RememberContext: c.RememberContext,
		PersistLanguage: c.PersistLanguage,
		AllowList:       c.AllowList,
		DenyList:        c.DenyList,
		Overrides:       overrides,
	}
}

// Registry returns the configured domains and languages. It returns nil
// when neither is configured, in which case ids are not validated.
func (c *Config) Registry() *scope.Registry {
	if len(c.Domains) == 0 && len(c.Languages) == 0 {
		return nil
	}
	domains := make([]scope.Domain, 0, len(c.Domains))
	for _, d := range c.Domains {
		domains = append(domains, scope.Domain{ID: d.ID, Hostname: d.Hostname})
	}
	return scope.NewRegistry(domains, c.Languages)
}

// Selection returns the explicit selection given for this invocation, or
// nil.
func (c *Config) Selection() *scope.Selection {
	if c.Domain == "" && c.Language == "" {
		return nil
	}
	return &scope.Selection{DomainID: c.Domain, LanguageID: c.Language}
}

// SwitcherEnabled reports whether the context switcher applies to path.
func (c *Config) SwitcherEnabled(path string) bool {
	path = "/" + strings.Trim(path, "/")
	for _, p := range c.SwitcherPaths {
		if "/"+strings.Trim(p, "/") == path {
			return true
		}
	}
	return false
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setStringsFromString splits a comma-separated list.
// Used for environment variables that come as strings.
func (s *configSetter) setStringsFromString(flag, value string, dst *[]string) {
	if value == "" || s.changed[flag] {
		return
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
