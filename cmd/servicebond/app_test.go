package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servicebond/modules/site"
	"github.com/dmitrymomot/servicebond/pkg/logger"
	"github.com/dmitrymomot/servicebond/pkg/requestid"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error *struct {
		Code    string              `json:"code"`
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

type app struct {
	t       *testing.T
	handler http.Handler
}

func newApp(t *testing.T, mutate ...func(*Config)) *app {
	t.Helper()

	cfg := Config{
		TenantFailClosed: true,
		GlobalConf:       site.GlobalConf{TimeZone: "Europe/Kyiv"},
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	cache := tenant.NewMemoryCache(16)
	t.Cleanup(func() { _ = cache.Close() })

	h, err := newHandler(deps{
		cfg:         cfg,
		log:         logger.Discard(),
		store:       administration.NewMemoryStorage(),
		tenantCache: cache,
		queryOut:    io.Discard,
	})
	require.NoError(t, err)
	return &app{t: t, handler: h}
}

func (a *app) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *app) json(rec *httptest.ResponseRecorder, into any) envelope {
	a.t.Helper()

	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if into != nil {
		require.NoError(a.t, json.Unmarshal(env.Data, into))
	}
	return env
}

func (a *app) createShop(title string) administration.Shop {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/admin/shops", `{"title":"`+title+`"}`)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var shop administration.Shop
	a.json(rec, &shop)
	return shop
}

func key(id int64) string { return strconv.FormatInt(id, 10) }

func TestApp_DefaultRouter(t *testing.T) {
	t.Parallel()

	a := newApp(t)

	rec := a.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/ui-panel", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get(requestid.Header))

	rec = a.do(http.MethodGet, "/ui-panel/shop/3/?tab=customers", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/static/vue/index.html#/shop/3/?tab=customers", rec.Header().Get("Location"))

	rec = a.do(http.MethodGet, "/api/v1/global_conf/TIME_ZONE", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tz string
	a.json(rec, &tz)
	assert.Equal(t, "Europe/Kyiv", tz)

	rec = a.do(http.MethodGet, "/api/v1/global_conf/SECRET_KEY", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApp_ShopSubsite(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	acme := a.createShop("Acme")
	other := a.createShop("Other")

	rec := a.do(http.MethodGet, "/api/v1/shop", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := a.json(rec, nil)
	assert.EqualValues(t, 2, env.Meta["count"])

	shopPath := "/shop/" + key(acme.ID)
	rec = a.do(http.MethodGet, shopPath+"/", "")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/ui-panel"+shopPath+"/", rec.Header().Get("Location"))

	rec = a.do(http.MethodGet, shopPath+"/admin", "")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, shopPath+"/admin/", rec.Header().Get("Location"))

	rec = a.do(http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/admin/", rec.Header().Get("Location"))

	rec = a.do(http.MethodPost, shopPath+"/admin/customer", `{"first_name":"  Ann ","phone_number":"+1 555-010-0200"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c administration.Customer
	a.json(rec, &c)
	assert.Equal(t, "Ann", *c.FirstName)

	rec = a.do(http.MethodGet, shopPath+"/api/v1/customer/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = a.json(rec, nil)
	assert.EqualValues(t, 1, env.Meta["count"])

	otherPath := "/shop/" + key(other.ID)
	rec = a.do(http.MethodGet, otherPath+"/api/v1/customer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = a.json(rec, nil)
	assert.EqualValues(t, 0, env.Meta["count"], "customers of another shop are invisible")

	rec = a.do(http.MethodGet, otherPath+"/admin/customer/"+key(c.ID), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPost, shopPath+"/api/v1/customer", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "the shop API is read-only")
}

func TestApp_UnknownShop(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/shop/999/api/v1/customer", "/shop/abc/", "/shop/007/"} {
		rec := newApp(t).do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	a := newApp(t)
	malformed := a.do(http.MethodGet, "/shop/abc/api/v1/customer", "")
	missing := a.do(http.MethodGet, "/shop/999/api/v1/customer", "")
	padded := a.do(http.MethodGet, "/shop/0999/api/v1/customer", "")
	assert.Equal(t, http.StatusNotFound, malformed.Code)
	assert.Equal(t, missing.Body.String(), malformed.Body.String(), "malformed and unknown ids must look the same")
	assert.Equal(t, missing.Body.String(), padded.Body.String())
	env := a.json(missing, nil)
	require.NotNil(t, env.Error)
	assert.Equal(t, "not_found", env.Error.Code)
	assert.Equal(t, "shop not found", env.Error.Message)

	shop := a.createShop("Known")
	rec := a.do(http.MethodGet, "/shop/"+key(shop.ID)+"/admin/customer/424242", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env = a.json(rec, nil)
	assert.Equal(t, "not found", env.Error.Message, "causes stay server-side")

	a = newApp(t, func(c *Config) { c.TenantFailClosed = false })
	rec = a.do(http.MethodGet, "/shop/999/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "the default router has no /shop route")
}

func TestApp_MyShopInvalidatesCaches(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	shop := a.createShop("Old Name")
	shopPath := "/shop/" + key(shop.ID)

	rec := a.do(http.MethodGet, shopPath+"/admin/my_shop", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodPut, shopPath+"/admin/my_shop", `{"title":"New Name","social_contacts":{"twitter":"@new","fax":"1"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated administration.Shop
	a.json(rec, &updated)
	assert.Equal(t, "new-name", updated.Name)
	assert.Equal(t, administration.JSONObject{"twitter": "@new"}, updated.SocialContacts)

	rec = a.do(http.MethodPut, shopPath+"/admin/my_shop", `{"title":"x","opening_hours":{"monday":9}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := a.json(rec, nil)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "opening_hours")
}

func TestApp_Revisions(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	shop := a.createShop("Tracked")
	shopPath := "/shop/" + key(shop.ID)

	rec := a.do(http.MethodPost, shopPath+"/admin/customer", `{"first_name":"Rev"}`, requestid.Header, "req-1")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(http.MethodPost, shopPath+"/admin/customer", `{"phone_number":"12"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(http.MethodGet, "/admin/revisions?tenant="+key(shop.ID), "")
	require.Equal(t, http.StatusOK, rec.Code)
	var revs []struct {
		RequestID string `json:"request_id"`
		Versions  []struct {
			ObjectType string `json:"object_type"`
		} `json:"versions"`
	}
	env := a.json(rec, &revs)
	assert.EqualValues(t, 1, env.Meta["count"], "failed requests save no revision")
	require.Len(t, revs, 1)
	assert.Equal(t, "req-1", revs[0].RequestID)
	assert.Equal(t, administration.ObjectCustomer, revs[0].Versions[0].ObjectType)
}

func TestApp_CSRF(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	rec := a.do(http.MethodPost, "/admin/shops", `{"title":"Evil"}`, "Origin", "https://evil.example")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = a.do(http.MethodPost, "/admin/shops", `{"title":"Same"}`, "Origin", "http://example.com")
	assert.Equal(t, http.StatusCreated, rec.Code)

	a = newApp(t, func(c *Config) { c.CSRFDisabled = true })
	rec = a.do(http.MethodPost, "/admin/shops", `{"title":"Evil"}`, "Origin", "https://evil.example")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestApp_UserPermissions(t *testing.T) {
	t.Parallel()

	a := newApp(t)
	shop := a.createShop("Guarded")
	shopPath := "/shop/" + key(shop.ID)

	rec := a.do(http.MethodPost, shopPath+"/admin/user", `{"username":"clerk","password":"clerk-pass","is_shop_admin":true,"is_superuser":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var clerk administration.User
	a.json(rec, &clerk)
	assert.False(t, clerk.IsSuperuser)

	var can struct {
		Allowed  bool   `json:"allowed"`
		Required string `json:"required"`
	}
	base := "/admin/users/" + key(clerk.ID) + "/can?shop=" + key(shop.ID)

	rec = a.do(http.MethodGet, base+"&resource=customer&action=add", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a.json(rec, &can)
	assert.True(t, can.Allowed)
	assert.Equal(t, "shop_admin", can.Required)

	rec = a.do(http.MethodGet, base+"&resource=my_shop&action=change", "")
	require.Equal(t, http.StatusOK, rec.Code)
	a.json(rec, &can)
	assert.False(t, can.Allowed)
	assert.Equal(t, "master_shop_admin", can.Required)

	rec = a.do(http.MethodGet, "/admin/users/999/can?resource=shop&action=view", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
