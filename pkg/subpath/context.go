package subpath

import (
	"context"
	"maps"

	"github.com/dmitrymomot/servicebond/pkg/tenant"
)

// Route is what the dispatcher decided for the request.
type Route struct {
	State    State
	Subspace string         // first path segment, "" for NoSubspace
	Tenant   *tenant.Tenant // nil unless State is TenantResolved
	Table    *Table         // nil means the default router
	Err      error          // resolution error for TenantUnresolved
}

type (
	routeKey  struct{}
	paramsKey struct{}
)

// WithRoute stores route in ctx.
func WithRoute(ctx context.Context, route *Route) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

// FromContext returns the route recorded by the dispatcher.
func FromContext(ctx context.Context) (*Route, bool) {
	r, ok := ctx.Value(routeKey{}).(*Route)
	return r, ok && r != nil
}

func withParams(ctx context.Context, params map[string]string) context.Context {
	if prev, ok := ctx.Value(paramsKey{}).(map[string]string); ok {
		merged := maps.Clone(prev)
		maps.Copy(merged, params)
		params = merged
	}
	return context.WithValue(ctx, paramsKey{}, params)
}

// Param returns the value of a named group captured by a table rule,
// or "" when the group did not participate in the match.
func Param(ctx context.Context, name string) string {
	params, _ := ctx.Value(paramsKey{}).(map[string]string)
	return params[name]
}
