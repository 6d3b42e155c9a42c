package di

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ProvideLogger creates a new zerolog.Logger writing diagnostics to stderr so
// they stay apart from the console narration on stdout.
// With LOG_FORMAT=json it emits JSON, otherwise console format with pretty printing.
func ProvideLogger(verbose bool) zerolog.Logger {
	return newLogger(os.Stderr, os.Getenv("LOG_FORMAT"), verbose)
}

func newLogger(w io.Writer, format string, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	if format == "json" {
		return zerolog.New(w).
			Level(level).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
