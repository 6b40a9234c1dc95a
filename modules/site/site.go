// Package site is the default router: everything outside the admin and
// shop subspaces.
package site

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/servicebond/handler"
	"github.com/dmitrymomot/servicebond/modules/api"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

const (
	// UIPanelPath serves the single page app entry point.
	UIPanelPath = "/ui-panel"
	uiPanelApp  = "/static/vue/index.html"
)

// GlobalConf holds the public settings exposed under global_conf.
type GlobalConf struct {
	TimeZone           string `env:"TIME_ZONE" envDefault:"UTC"`
	GoogleAnalyticsID  string `env:"GOOGLE_ANALYTICS_ID"`
	FacebookTrackingID string `env:"FACEBOOK_TRACKING_ID"`
}

// Values returns the settings keyed by their public names.
func (c GlobalConf) Values() map[string]any {
	return map[string]any{
		"TIME_ZONE":            nullString(c.TimeZone),
		"GOOGLE_ANALYTICS_ID":  nullString(c.GoogleAnalyticsID),
		"FACEBOOK_TRACKING_ID": nullString(c.FacebookTrackingID),
	}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// UIPanelURL builds the single page app address for hash and an encoded
// query string.
func UIPanelURL(hash, rawQuery string) string {
	url := uiPanelApp
	if hash != "" {
		url += "#" + hash
	}
	if rawQuery != "" {
		url += "?" + rawQuery
	}
	return url
}

// UIPanel redirects to the single page app. hash returns the fragment to
// open, taken from the part of the path after ui-panel.
func UIPanel(hash func(r *http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, UIPanelURL(hash(r), r.URL.RawQuery), http.StatusFound)
	})
}

// Router returns the default router.
func Router(svc *administration.Service, conf GlobalConf, log *slog.Logger) chi.Router {
	h := &handlers{svc: svc, conf: conf}
	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, UIPanelPath, http.StatusFound)
	})
	panel := UIPanel(func(r *http.Request) string {
		return strings.TrimPrefix(r.URL.Path, UIPanelPath)
	})
	r.Handle(UIPanelPath, panel)
	r.Handle(UIPanelPath+"/*", panel)

	r.Route("/api/{version:v[0-9]+}", func(r chi.Router) {
		r.Get("/shop", api.Query(log, h.listShops))
		r.Get("/shop/{id}", api.Path(log, h.getShop))
		r.Get("/global_conf", api.Query(log, h.globalConf))
		r.Get("/global_conf/{key}", api.Path(log, h.globalConfKey))
	})

	return r
}

type handlers struct {
	svc  *administration.Service
	conf GlobalConf
}

func (h *handlers) listShops(ctx handler.Context, req administration.ListOptions) handler.Response {
	page, err := h.svc.ListShops(ctx, req)
	if err != nil {
		return api.Fail(err)
	}
	return api.Page(page, req)
}

func (h *handlers) getShop(ctx handler.Context, req api.ID) handler.Response {
	shop, err := h.svc.GetShop(ctx, req.ID)
	if err != nil {
		return api.Fail(err)
	}
	return handler.JSON(shop)
}

func (h *handlers) globalConf(_ handler.Context, _ struct{}) handler.Response {
	return handler.JSON(h.conf.Values())
}

type confKeyRequest struct {
	Key string `path:"key"`
}

func (h *handlers) globalConfKey(_ handler.Context, req confKeyRequest) handler.Response {
	value, ok := h.conf.Values()[req.Key]
	if !ok {
		return handler.JSONError(handler.ErrNotFound)
	}
	return handler.JSON(value)
}
