// Package logctx carries a zerolog logger through context.Context, so worker
// tasks log with their region coordinates attached without threading a logger
// argument through every call.
package logctx

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// New builds the process logger. Debug lowers the level; console switches
// from JSON lines to a human-friendly writer.
func New(debug, console bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	var out = os.Stderr
	if console {
		w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}

		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext extracts the context's logger, falling back to a disabled
// logger so library code can always log unconditionally.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
			return logger
		}
	}

	return zerolog.Nop()
}
