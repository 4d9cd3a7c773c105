package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (DOMAINCFG_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("storage-dir", os.Getenv("DOMAINCFG_STORAGE_DIR"), &cfg.StorageDir)
	s.setString("backend", os.Getenv("DOMAINCFG_BACKEND"), &cfg.Backend)
	s.setString("session-dir", os.Getenv("DOMAINCFG_SESSION_DIR"), &cfg.SessionDir)
	s.setString("session", os.Getenv("DOMAINCFG_SESSION"), &cfg.Session)
	s.setString("log-level", os.Getenv("DOMAINCFG_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("domain", os.Getenv("DOMAINCFG_DOMAIN"), &cfg.Domain)
	s.setString("language", os.Getenv("DOMAINCFG_LANGUAGE"), &cfg.Language)
	s.setString("host", os.Getenv("DOMAINCFG_HOST"), &cfg.Host)

	s.setBoolFromString("remember", os.Getenv("DOMAINCFG_REMEMBER_CONTEXT"), &cfg.RememberContext)
	s.setBoolFromString("persist-language", os.Getenv("DOMAINCFG_PERSIST_LANGUAGE"), &cfg.PersistLanguage)

	s.setStringsFromString("allow-list", os.Getenv("DOMAINCFG_ALLOW_LIST"), &cfg.AllowList)
	s.setStringsFromString("deny-list", os.Getenv("DOMAINCFG_DENY_LIST"), &cfg.DenyList)
	s.setStringsFromString("languages", os.Getenv("DOMAINCFG_LANGUAGES"), &cfg.Languages)

	if err := s.setDuration("debounce", os.Getenv("DOMAINCFG_WATCH_DEBOUNCE"), &cfg.WatchDebounce); err != nil {
		return err
	}

	return nil
}
