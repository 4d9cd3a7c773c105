// Package config exposes configuration objects whose effective values
// depend on the active context.
//
// A [Config] behaves like a single configuration object identified by its
// base name. Reads see the base payload overlaid, field by field, with the
// override resolved for the current context. Saves are redirected to the
// context-specific storage name; the object keeps reporting its base name.
// Only stored data and local changes are written: overrides from settings
// or from a more specific name than the write target shape reads alone.
//
// Objects come from a [Factory], which is scoped to one operation and
// caches objects by base name, context and mutability.
package config
