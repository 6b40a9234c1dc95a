// Package admin is the central administration subspace mounted at /admin/.
// Every route is unscoped: shops, users and revisions of all tenants.
package admin

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/servicebond/modules/api"
	"github.com/dmitrymomot/servicebond/pkg/subpath"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

// Subspace is the first path segment the admin table is installed for.
const Subspace = "admin"

// Table returns the static routing table of the admin subspace.
func Table(svc *administration.Service, log *slog.Logger) *subpath.Table {
	return subpath.MustTable(Subspace,
		subpath.Rule{Name: "admin", Pattern: `^admin/`, Prefix: true, Handler: Router(svc, log)},
		subpath.Rule{Name: "admin-root", Pattern: `^admin$`, Handler: http.RedirectHandler("/admin/", http.StatusMovedPermanently)},
	)
}

// Router serves the admin API relative to /admin.
func Router(svc *administration.Service, log *slog.Logger) chi.Router {
	h := &handlers{svc: svc}
	r := chi.NewRouter()

	r.Get("/", api.Query(log, h.index))
	r.Get("/permissions", api.Query(log, h.permissions))

	r.Route("/shops", func(r chi.Router) {
		r.Get("/", api.Query(log, h.listShops))
		r.Post("/", api.Body(log, h.createShop))
		r.Get("/{id}", api.Path(log, h.getShop))
		r.Put("/{id}", api.Body(log, h.updateShop))
		r.Get("/{id}/customers", api.PathQuery(log, h.listShopCustomers))
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", api.Query(log, h.listUsers))
		r.Post("/", api.Body(log, h.createUser))
		r.Get("/{id}", api.Path(log, h.getUser))
		r.Put("/{id}", api.Body(log, h.updateUser))
		r.Delete("/{id}", api.Path(log, h.deleteUser))
		r.Get("/{id}/can", api.PathQuery(log, h.userCan))
	})

	r.Get("/revisions", api.Query(log, h.listRevisions))

	return r
}
