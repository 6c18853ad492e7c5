package cmd

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// newLogger writes human-readable logs to w. Each process gets its own
// request id so a gen and the log lines it produced can be matched up.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !isTerminal(w)}
	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("request_id", uuid.NewString()).
		Logger()
}
