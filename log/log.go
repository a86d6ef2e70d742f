// Package log configures the process-wide zerolog logger.
package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// New returns a logger writing JSON lines, or human readable lines when pretty is set.
func New(out io.Writer, level string, pretty bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), eris.Wrapf(err, "invalid log level %q", level)
	}
	if pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

// Setup builds a stdout logger and installs it as the global logger.
func Setup(level string, pretty bool) (zerolog.Logger, error) {
	logger, err := New(os.Stdout, level, pretty)
	if err != nil {
		return logger, err
	}
	zerolog.SetGlobalLevel(logger.GetLevel())
	zlog.Logger = logger
	return logger, nil
}
