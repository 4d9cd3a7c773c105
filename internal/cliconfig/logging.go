package cliconfig

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/bft-labs/domaincfg/pkg/log"
)

// Logger returns a console logger writing to stderr at level.
func Logger(level string) zerolog.Logger {
	return log.NewZerologAdapter(os.Stderr, level).Logger()
}
