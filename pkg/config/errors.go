package config

import "errors"

var (
	// ErrImmutable is returned when modifying or saving an immutable object.
	ErrImmutable = errors.New("config: object is immutable")

	// ErrSaveFailed wraps storage failures during Save.
	ErrSaveFailed = errors.New("config: save failed")

	// ErrEmptyName is returned when a base name is empty.
	ErrEmptyName = errors.New("config: empty name")
)
