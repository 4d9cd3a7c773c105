// Package storage defines the key/value collaborator that configuration
// payloads are read from and written to, and the Payload type itself.
//
// Names are opaque strings. This package imposes no schema on payloads;
// a missing name is reported with ok=false, never as an error.
package storage
