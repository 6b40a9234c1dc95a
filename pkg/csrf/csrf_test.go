package csrf_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/servicebond/pkg/csrf"
)

func TestProtect(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	tests := []struct {
		name    string
		method  string
		headers map[string]string
		opts    []csrf.Option
		want    int
	}{
		{name: "safe method cross-site", method: http.MethodGet, headers: map[string]string{"Sec-Fetch-Site": "cross-site"}, want: http.StatusNoContent},
		{name: "same origin fetch", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "same-origin"}, want: http.StatusNoContent},
		{name: "user initiated", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "none"}, want: http.StatusNoContent},
		{name: "cross site fetch", method: http.MethodPost, headers: map[string]string{"Sec-Fetch-Site": "cross-site"}, want: http.StatusForbidden},
		{name: "same site fetch", method: http.MethodDelete, headers: map[string]string{"Sec-Fetch-Site": "same-site"}, want: http.StatusForbidden},
		{name: "no headers", method: http.MethodPut, want: http.StatusNoContent},
		{name: "matching origin", method: http.MethodPost, headers: map[string]string{"Origin": "http://example.com"}, want: http.StatusNoContent},
		{name: "foreign origin", method: http.MethodPost, headers: map[string]string{"Origin": "http://evil.test"}, want: http.StatusForbidden},
		{
			name:    "trusted origin",
			method:  http.MethodPost,
			headers: map[string]string{"Origin": "http://localhost:8080", "Sec-Fetch-Site": "cross-site"},
			opts:    []csrf.Option{csrf.WithTrustedOrigins("http://localhost:8080/")},
			want:    http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "http://example.com/admin/shops", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			csrf.Protect(tt.opts...)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestDisable(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	for _, disabled := range []bool{true, false} {
		req := httptest.NewRequest(http.MethodPost, "/admin/shops", nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		rec := httptest.NewRecorder()

		csrf.Disable(disabled)(csrf.Protect()(ok)).ServeHTTP(rec, req)

		if disabled {
			assert.Equal(t, http.StatusNoContent, rec.Code)
		} else {
			assert.Equal(t, http.StatusForbidden, rec.Code)
		}
	}

	assert.False(t, csrf.Disabled(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestProtect_CustomErrorHandler(t *testing.T) {
	t.Parallel()

	var got error
	h := csrf.Protect(csrf.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
		got = err
		w.WriteHeader(http.StatusTeapot)
	}))(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.ErrorIs(t, got, csrf.ErrCrossOrigin)
}
