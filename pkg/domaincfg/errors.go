package domaincfg

import "errors"

// ErrInvalidConfig is returned when configuration validation fails.
var ErrInvalidConfig = errors.New("domaincfg: invalid configuration")
