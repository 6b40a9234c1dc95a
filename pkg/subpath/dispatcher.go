package subpath

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/servicebond/pkg/logger"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
)

// TenantResolver turns a raw path segment into a tenant.
// *tenant.Resolver satisfies it.
type TenantResolver interface {
	Resolve(ctx context.Context, raw string) (*tenant.Tenant, error)
}

// Dispatcher inspects the first path segment of each request, decides which
// routing table applies and sets or clears the current tenant accordingly.
type Dispatcher struct {
	resolver TenantResolver
	tables   *TableCache
	literal  string
	cfg      *config
}

// New creates a dispatcher. The tenant literal is taken from the template
// behind tables. Panics on nil dependencies or when a static subspace shadows
// the tenant literal.
func New(resolver TenantResolver, tables *TableCache, opts ...Option) *Dispatcher {
	if resolver == nil || tables == nil {
		panic("subpath: resolver and tables are required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	literal := tables.Template().Literal()
	if _, ok := cfg.static[literal]; ok {
		panic(fmt.Sprintf("subpath: static subspace %q collides with the tenant literal", literal))
	}

	return &Dispatcher{
		resolver: resolver,
		tables:   tables,
		literal:  literal,
		cfg:      cfg,
	}
}

// Dispatch classifies r and returns a copy carrying the route and the tenant
// context. It never fails: errors end up in Route.Err with state
// TenantUnresolved.
func (d *Dispatcher) Dispatch(r *http.Request) (*http.Request, *Route) {
	ctx := r.Context()
	first, rest, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")

	var route *Route
	switch {
	case first == d.literal:
		route = d.dispatchTenant(ctx, rest)
	case d.cfg.static[first] != nil:
		route = &Route{State: KnownSubspace, Subspace: first, Table: d.cfg.static[first]}
	default:
		route = &Route{State: NoSubspace}
	}

	if route.State == TenantResolved {
		ctx = tenant.WithTenant(ctx, route.Tenant)
	} else {
		ctx = tenant.Clear(ctx)
	}
	ctx = WithRoute(ctx, route)

	d.cfg.logger.DebugContext(ctx, "subpath dispatched",
		logger.Path(r.URL.Path),
		logger.State(route.State),
		logger.Subspace(route.Subspace),
	)

	return r.WithContext(ctx), route
}

func (d *Dispatcher) dispatchTenant(ctx context.Context, rest string) *Route {
	rawID, _, _ := strings.Cut(rest, "/")
	unresolved := &Route{State: TenantUnresolved, Subspace: d.literal}

	t, err := d.resolver.Resolve(ctx, rawID)
	if err != nil {
		if !errors.Is(err, tenant.ErrTenantNotFound) {
			d.cfg.logger.ErrorContext(ctx, "tenant lookup failed", logger.Error(err))
		}
		unresolved.Err = err
		return unresolved
	}

	table, err := d.tables.Get(t.ID)
	if err != nil {
		d.cfg.logger.ErrorContext(ctx, "tenant table build failed",
			logger.TenantID(t.ID),
			logger.Error(err),
		)
		unresolved.Err = err
		return unresolved
	}

	return &Route{State: TenantResolved, Subspace: d.literal, Tenant: t, Table: table}
}

// Middleware runs Dispatch in front of next. In fail-closed mode an
// unresolved tenant is answered by the error handler and next is skipped.
// Mount Router(defaultRouter) as next to serve the installed table.
func (d *Dispatcher) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, route := d.Dispatch(r)
		if route.State == TenantUnresolved && d.cfg.failClosed {
			err := route.Err
			if err == nil {
				err = tenant.ErrTenantNotFound
			}
			d.cfg.errorHandler(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Router serves the table installed by the dispatcher, or fallback when the
// request has none (NoSubspace, or TenantUnresolved in fail-open mode).
func Router(fallback http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route, ok := FromContext(r.Context()); ok && route.Table != nil {
			route.Table.ServeHTTP(w, r)
			return
		}
		fallback.ServeHTTP(w, r)
	})
}
