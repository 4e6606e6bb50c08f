package logger

import (
	"context"
	"log/slog"
)

type ctxAttrsKey struct{}

// WithContextAttrs returns a context carrying attrs. Loggers built by New add
// them to every record logged with that context. Attributes accumulate across
// nested calls.
func WithContextAttrs(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	prev, _ := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(prev)+len(attrs))
	merged = append(merged, prev...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, ctxAttrsKey{}, merged)
}

// contextAttrs is always registered by New. An empty group key makes slog
// inline the attributes.
func contextAttrs(ctx context.Context) (slog.Attr, bool) {
	if ctx == nil {
		return slog.Attr{}, false
	}
	attrs, ok := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	if !ok || len(attrs) == 0 {
		return slog.Attr{}, false
	}
	return slog.Attr{Key: "", Value: slog.GroupValue(attrs...)}, true
}
