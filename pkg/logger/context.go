package logger

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into stores l as the request logger. Later With calls add fields to it.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}

// With returns a context whose logger carries the extra fields, so trace and
// user ids follow the request into services and event handlers.
func With(ctx context.Context, fields ...any) context.Context {
	return Into(ctx, From(ctx).With(fields...))
}

// From returns the request logger, or the process logger when none was set.
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
