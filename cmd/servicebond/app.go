package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/servicebond/handler"
	"github.com/dmitrymomot/servicebond/modules/admin"
	"github.com/dmitrymomot/servicebond/modules/api"
	"github.com/dmitrymomot/servicebond/modules/shop"
	"github.com/dmitrymomot/servicebond/modules/site"
	"github.com/dmitrymomot/servicebond/pkg/csrf"
	"github.com/dmitrymomot/servicebond/pkg/httpserver"
	"github.com/dmitrymomot/servicebond/pkg/querylog"
	"github.com/dmitrymomot/servicebond/pkg/reqtiming"
	"github.com/dmitrymomot/servicebond/pkg/requestid"
	"github.com/dmitrymomot/servicebond/pkg/revision"
	"github.com/dmitrymomot/servicebond/pkg/subpath"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
	"github.com/dmitrymomot/servicebond/pkg/uiversion"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

// deps are the collaborators the HTTP handler is built from.
type deps struct {
	cfg         Config
	log         *slog.Logger
	store       administration.Storage
	tenantCache tenant.Cache
	ui          *uiversion.Source
	queryOut    io.Writer
	checks      []httpserver.Check
}

// newHandler assembles the request pipeline:
//
//	recoverer, request id, timing log, SQL debug log, UI version header,
//	CSRF bypass flag, CSRF check, revision collector, subpath dispatcher,
//	then the table installed by the dispatcher or the default router.
//
// Health checks are served beside the pipeline.
func newHandler(d deps) (http.Handler, error) {
	var (
		resolver *tenant.Resolver
		tables   *subpath.TableCache
	)

	svc := administration.NewService(d.store,
		administration.WithLogger(d.log),
		administration.WithShopChangeHook(func(ctx context.Context, id int64) {
			resolver.Forget(ctx, id)
			tables.Forget(id)
		}),
	)

	resolver = tenant.NewResolver(svc.TenantProvider(),
		tenant.WithCache(d.tenantCache),
		tenant.WithCacheTTL(d.cfg.TenantCacheTTL),
		tenant.WithLogger(d.log),
	)

	tpl, err := shop.Template(svc, d.log)
	if err != nil {
		return nil, err
	}
	tables = subpath.NewTableCache(tpl)

	dispatcher := subpath.New(resolver, tables,
		subpath.WithStaticSubspace(admin.Subspace, admin.Table(svc, d.log)),
		subpath.WithFailClosed(d.cfg.TenantFailClosed),
		subpath.WithErrorHandler(api.TenantErrorHandler),
		subpath.WithLogger(d.log),
	)

	middlewares := chi.Chain(
		chimw.Recoverer,
		requestid.Middleware,
		reqtiming.Middleware(d.cfg.Debug, d.log),
		querylog.Middleware(d.cfg.Debug, querylog.WithOutput(d.queryOut)),
	)
	if d.ui != nil {
		middlewares = append(middlewares, uiversion.Middleware(d.ui, d.log))
	}
	middlewares = append(middlewares,
		csrf.Disable(d.cfg.CSRFDisabled),
		csrf.Protect(
			csrf.WithTrustedOrigins(d.cfg.CSRFTrustedOrigins...),
			csrf.WithErrorHandler(forbidden),
			csrf.WithLogger(d.log),
		),
		revision.Middleware(d.store, d.log),
		dispatcher.Middleware,
	)

	pipeline := middlewares.Handler(subpath.Router(site.Router(svc, d.cfg.GlobalConf, d.log)))

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", httpserver.LivenessHandler())
	mux.Handle("GET /readyz", httpserver.ReadinessHandler(d.log, d.checks...))
	mux.Handle("/", pipeline)
	return mux, nil
}

func forbidden(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		err = errors.New("forbidden")
	}
	_ = handler.JSONError(handler.ErrForbidden.Wrap(err)).Render(w, r)
}
