package cliconfig

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger returns the CLI logger: console output on stderr with RFC3339
// timestamps.
func Logger() zerolog.Logger {
	return NewLogger(os.Stderr)
}

// NewLogger returns a console logger writing to w.
func NewLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()
}

// SetLogLevel sets the global zerolog level from a name such as "debug".
func SetLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
