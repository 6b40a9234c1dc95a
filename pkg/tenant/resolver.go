package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// maxIDLength bounds the identifier before parsing; int64 has at most 19 digits.
const maxIDLength = 19

// ParseID converts an untrusted path segment into a tenant ID.
// Only canonical positive decimals are accepted: no sign, no leading zeros,
// no whitespace. A non-canonical form like "05" would never match the
// specialized routing table for tenant 5, so it is rejected here.
func ParseID(raw string) (int64, error) {
	if raw == "" || len(raw) > maxIDLength || raw[0] == '0' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
		}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIdentifier, raw)
	}
	return id, nil
}

// Resolver turns a raw path segment into a tenant, consulting the cache
// before the provider.
type Resolver struct {
	provider Provider
	cache    Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewResolver creates a tenant resolver backed by provider.
// Caching is disabled unless WithCache is given.
func NewResolver(provider Provider, opts ...Option) *Resolver {
	if provider == nil {
		panic("tenant: provider cannot be nil")
	}

	cfg := &config{
		cache:    NewNoOpCache(),
		cacheTTL: 5 * time.Minute,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Resolver{
		provider: provider,
		cache:    cfg.cache,
		cacheTTL: cfg.cacheTTL,
		logger:   cfg.logger,
	}
}

// Resolve looks up the tenant identified by raw.
//
// Malformed and unknown identifiers both yield an error matching
// ErrTenantNotFound; callers cannot tell them apart. Any other error comes
// from the provider (e.g. the database is unreachable).
func (r *Resolver) Resolve(ctx context.Context, raw string) (*Tenant, error) {
	id, err := ParseID(raw)
	if err != nil {
		return nil, errors.Join(ErrTenantNotFound, err)
	}

	if cached, ok := r.cache.Get(ctx, id); ok {
		return cached, nil
	}

	t, err := r.provider.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolve tenant %d: %w", id, err)
	}
	if t == nil {
		return nil, ErrTenantNotFound
	}

	if err := r.cache.Set(ctx, id, t, r.cacheTTL); err != nil {
		r.logger.WarnContext(ctx, "failed to cache tenant",
			slog.Int64("tenant_id", id),
			slog.Any("error", err),
		)
	}

	return t, nil
}

// Forget drops the cached record for id, e.g. after the shop was renamed.
func (r *Resolver) Forget(ctx context.Context, id int64) {
	r.cache.Delete(ctx, id)
}
