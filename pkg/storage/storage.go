package storage

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidName is returned for names that cannot be stored.
var ErrInvalidName = errors.New("storage: invalid name")

// Storage reads and writes configuration payloads by name.
//
// Contract:
//   - Read returns ok=false and a nil error when name has no entry.
//   - ReadMultiple omits missing names from the result.
//   - Implementations are safe for concurrent use and provide atomic
//     single-name reads and writes.
type Storage interface {
	Read(ctx context.Context, name string) (Payload, bool, error)
	ReadMultiple(ctx context.Context, names []string) (map[string]Payload, error)
	Write(ctx context.Context, name string, data Payload) error
}

// Lister is implemented by storages that can enumerate and delete names.
type Lister interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// ValidateName rejects empty names and names that could escape a
// file-backed storage directory.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	if strings.ContainsAny(name, "/\\\x00\n\r") || strings.HasPrefix(name, ".") {
		return ErrInvalidName
	}
	return nil
}
