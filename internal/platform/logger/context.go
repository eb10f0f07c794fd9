package logger

import (
	"context"
	"log/slog"
)

// loggerContextKey is the private context key type for logger values.
// A private type prevents collisions with keys defined in other packages.
type loggerContextKey struct{}

// WithLogger returns a new context carrying the provided logger.
// Handlers and middleware use this to scope request-specific attributes
// (trace ID, user ID) onto the logger once instead of at every call site.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, logger)
}

// FromContext retrieves the logger stored in the context.
// If the context carries no logger, the process default logger is returned.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// FromContextOrDefault retrieves the logger stored in the context, falling
// back to the provided default rather than the process default. Components
// that carry their own component-scoped logger prefer this variant.
func FromContextOrDefault(ctx context.Context, def *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerContextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	if def != nil {
		return def
	}
	return slog.Default()
}
