// Package logging provides context-scoped zerolog helpers shared by the CLI
// and the batch core. Loggers travel through context.Context so that library
// code never touches a global logger directly.
package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext returns the logger stored in ctx, or a disabled logger when
// none has been attached. Callers always get a usable logger back.
func FromContext(ctx context.Context) zerolog.Logger {
	logger := zerolog.Ctx(ctx)
	if logger == nil {
		return zerolog.Nop()
	}
	return *logger
}

// WithContext attaches logger to ctx for retrieval via FromContext.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// ComponentLogger returns a child logger tagged with a component name.
// All events emitted through it carry a "component" field.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}
