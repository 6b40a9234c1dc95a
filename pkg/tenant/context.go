package tenant

import (
	"context"
	"log/slog"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// WithTenant binds the current tenant to the context.
func WithTenant(ctx context.Context, t *Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// Clear returns a context with no current tenant. It shadows any tenant bound
// further up the chain, so a handler downstream of Clear never observes one.
func Clear(ctx context.Context) context.Context {
	if t, _ := ctx.Value(contextKey{}).(*Tenant); t == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, (*Tenant)(nil))
}

// FromContext returns the current tenant.
// Returns nil, false if no tenant is bound or it was cleared.
func FromContext(ctx context.Context) (*Tenant, bool) {
	t, _ := ctx.Value(contextKey{}).(*Tenant)
	return t, t != nil
}

// IDFromContext returns the current tenant ID.
func IDFromContext(ctx context.Context) (int64, bool) {
	t, ok := FromContext(ctx)
	if !ok {
		return 0, false
	}
	return t.ID, true
}

// MustFromContext returns the current tenant or panics.
// Use only behind RequireTenant.
func MustFromContext(ctx context.Context) *Tenant {
	t, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant in context")
	}
	return t
}

// LoggerExtractor returns a logger context extractor adding tenant_id to records.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.Int64("tenant_id", id), true
		}
		return slog.Attr{}, false
	}
}
