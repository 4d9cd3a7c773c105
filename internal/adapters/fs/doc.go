// Package fs provides file-backed implementations of the configuration
// store and the session store.
package fs
