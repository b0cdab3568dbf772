// Package gologger builds the zerolog logger the CLI and catalog share.
package gologger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns the process logger. Output is structured JSON on stderr;
// PRETTY=1 switches to the console writer and DEBUG=1 lowers the global
// level to debug.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("PRETTY") == "1" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if os.Getenv("DEBUG") == "1" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return logger
}

// Nop returns a disabled logger for tests and callers that opt out.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
