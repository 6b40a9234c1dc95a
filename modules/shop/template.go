// Package shop is the per-shop sub-site mounted under /shop/<id>/. Its rules
// are written once against the placeholder id and specialized per shop by
// the subpath table cache.
package shop

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/servicebond/modules/api"
	"github.com/dmitrymomot/servicebond/modules/site"
	"github.com/dmitrymomot/servicebond/pkg/subpath"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

// Template returns the sub-site rules with subpath.DefaultLiteral and
// subpath.DefaultPlaceholder standing for the shop segment.
func Template(svc *administration.Service, log *slog.Logger) (*subpath.Template, error) {
	h := &handlers{svc: svc}
	return subpath.NewTemplate("shop", subpath.DefaultLiteral, subpath.DefaultPlaceholder,
		subpath.Rule{Name: "admin", Pattern: `^shop/0/admin/`, Prefix: true, Handler: adminRouter(h, log)},
		subpath.Rule{Name: "admin-root", Pattern: `^shop/0/admin$`, Handler: http.HandlerFunc(adminRoot)},
		subpath.Rule{Name: "api", Pattern: `^shop/0/api/(?P<version>v\d+)/`, Prefix: true, Handler: apiRouter(h, log)},
		subpath.Rule{Name: "index", Pattern: `^shop/0/?$`, Handler: http.HandlerFunc(index)},
	)
}

// index sends the shop home page to the single page app.
func index(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		api.TenantErrorHandler(w, r, tenant.ErrNoTenantInContext)
		return
	}
	http.Redirect(w, r, site.UIPanelPath+"/shop/"+t.Key()+"/", http.StatusFound)
}

// adminRoot adds the trailing slash, as the central /admin does.
func adminRoot(w http.ResponseWriter, r *http.Request) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		api.TenantErrorHandler(w, r, tenant.ErrNoTenantInContext)
		return
	}
	http.Redirect(w, r, "/"+subpath.DefaultLiteral+"/"+t.Key()+"/admin/", http.StatusMovedPermanently)
}

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(tenant.RequireTenant(api.TenantErrorHandler))
	r.Use(chimw.StripSlashes)
	return r
}

// adminRouter serves /shop/<id>/admin/ for the shop's staff.
func adminRouter(h *handlers, log *slog.Logger) http.Handler {
	r := newRouter()

	r.Get("/my_shop", api.Query(log, h.myShop))
	r.Put("/my_shop", api.Body(log, h.updateMyShop))

	r.Route("/customer", func(r chi.Router) {
		r.Get("/", api.Query(log, h.listCustomers))
		r.Post("/", api.Body(log, h.createCustomer))
		r.Get("/{id}", api.Path(log, h.getCustomer))
		r.Put("/{id}", api.Body(log, h.updateCustomer))
		r.Delete("/{id}", api.Path(log, h.deleteCustomer))
	})

	r.Route("/user", func(r chi.Router) {
		r.Get("/", api.Query(log, h.listUsers))
		r.Post("/", api.Body(log, h.createUser))
	})

	return r
}

// apiRouter serves the read-only public API of the shop.
func apiRouter(h *handlers, log *slog.Logger) http.Handler {
	r := newRouter()
	r.Get("/customer", api.Query(log, h.listCustomers))
	r.Get("/customer/{id}", api.Path(log, h.getCustomer))
	return r
}
