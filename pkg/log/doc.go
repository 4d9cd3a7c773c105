// Package log provides the logging abstraction used by domaincfg components.
//
// Library packages accept a [Logger] and never write to a global logger.
// The CLI wires the zerolog adapter; embedders can pass their own
// implementation or rely on the no-op default.
//
// # Usage
//
//	logger := log.NewZerologAdapter(os.Stderr, "info")
//	svc, err := domaincfg.New(cfg, store, domaincfg.WithLogger(logger))
//
// Structured fields for configuration names and contexts are available via
// [Name], [Domain] and [Language] so that every component logs them under
// the same keys.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package log
