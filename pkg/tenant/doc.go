// Package tenant carries the current shop through a request and resolves
// shop identifiers taken from URL paths.
//
// # Tenant context
//
// The current tenant lives in the request context, never in a package-level
// variable, so concurrent requests cannot observe each other's tenant:
//
//	ctx = tenant.WithTenant(ctx, t) // set
//	ctx = tenant.Clear(ctx)         // clear, shadowing any upstream value
//	t, ok := tenant.FromContext(ctx)
//
// Tenant-scoped storage reads the ID with IDFromContext and must fail with
// ErrNoTenantInContext when none is present instead of dropping the filter.
//
// # Resolution
//
// Resolver parses an untrusted path segment with ParseID and loads the tenant
// through a Provider. Providers must use an unscoped lookup: the tenant
// filter cannot apply while the tenant itself is being resolved.
//
//	resolver := tenant.NewResolver(provider,
//		tenant.WithCache(tenant.NewMemoryCache(0)),
//		tenant.WithCacheTTL(10*time.Minute),
//	)
//	t, err := resolver.Resolve(ctx, "42")
//	if errors.Is(err, tenant.ErrTenantNotFound) {
//		// malformed or unknown id
//	}
//
// NewMemoryCache keeps records in process; NewRedisCache shares them between
// instances.
//
// # Protecting routes
//
// RequireTenant rejects requests that reach a shop-only router without a
// tenant, which happens when the sub-path dispatcher runs in fail-open mode.
package tenant
