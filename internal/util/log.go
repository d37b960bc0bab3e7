package util

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/rs/zerolog"
)

// NewLogger writes JSON logs to stderr. Stdout is left to command output and
// the MCP stdio transport.
func NewLogger(level string) zerolog.Logger {
	return NewLoggerTo(os.Stderr, level)
}

func NewLoggerTo(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// LogError logs err with the goerr values attached along its chain.
func LogError(log zerolog.Logger, msg string, err error) {
	if err == nil {
		return
	}
	ev := log.Error().Err(err)
	var ge *goerr.Error
	if errors.As(err, &ge) {
		ev = ev.Interface("values", ge.Values())
	}
	ev.Msg(msg)
}
