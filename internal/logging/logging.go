// Package logging builds the zap logger and carries a request-scoped logger through contexts.
package logging

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type ctxKey struct{}

// New returns a development console logger for local runs and a JSON production logger otherwise.
func New(env string) (*zap.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "", "local", "dev", "development":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the global zap logger.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && logger != nil {
			return logger
		}
	}
	return zap.L()
}
