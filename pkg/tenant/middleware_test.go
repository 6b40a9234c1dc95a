package tenant_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/servicebond/pkg/tenant"
)

func TestRequireTenant(t *testing.T) {
	t.Parallel()

	t.Run("passes with tenant", func(t *testing.T) {
		t.Parallel()

		called := false
		handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.Equal(t, int64(3), tenant.MustFromContext(r.Context()).ID)
			w.WriteHeader(http.StatusNoContent)
		}))

		req := httptest.NewRequest(http.MethodGet, "/shop/3/", nil)
		req = req.WithContext(tenant.WithTenant(req.Context(), &tenant.Tenant{ID: 3}))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.True(t, called)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("rejects without tenant", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("handler should not be called")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/shop/abc/", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Shop not found")
	})

	t.Run("rejects cleared tenant", func(t *testing.T) {
		t.Parallel()

		handler := tenant.RequireTenant(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("handler should not be called")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := tenant.Clear(tenant.WithTenant(req.Context(), &tenant.Tenant{ID: 1}))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req.WithContext(ctx))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("custom error handler", func(t *testing.T) {
		t.Parallel()

		var got error
		handler := tenant.RequireTenant(func(w http.ResponseWriter, _ *http.Request, err error) {
			got = err
			w.WriteHeader(http.StatusTeapot)
		})(http.NotFoundHandler())

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusTeapot, w.Code)
		assert.True(t, errors.Is(got, tenant.ErrNoTenantInContext))
	})
}

func TestDefaultErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code int
	}{
		{tenant.ErrTenantNotFound, http.StatusNotFound},
		{tenant.ErrNoTenantInContext, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		tenant.DefaultErrorHandler(w, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}
