package subpath_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servicebond/pkg/subpath"
)

// echo writes its label and the path it was served with.
func echo(label string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, label+" "+r.URL.Path)
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestTable_Match(t *testing.T) {
	t.Parallel()

	table := subpath.MustTable("test",
		subpath.Rule{Name: "index", Pattern: `^$`, Handler: echo("index")},
		subpath.Rule{Name: "api", Pattern: `^api/(?P<version>v\d+)/`, Handler: echo("api"), Prefix: true},
		subpath.Rule{Name: "panel", Pattern: `ui-panel(?P<hash>\S+)?$`, Handler: echo("panel")},
	)

	t.Run("anchored at start", func(t *testing.T) {
		t.Parallel()

		_, ok := table.Match("/x/api/v1/")
		assert.False(t, ok)
	})

	t.Run("named groups", func(t *testing.T) {
		t.Parallel()

		m, ok := table.Match("/api/v2/customer/3")
		require.True(t, ok)
		assert.Equal(t, "api", m.Rule)
		assert.True(t, m.Prefix)
		assert.Equal(t, "customer/3", m.Rest)
		assert.Equal(t, map[string]string{"version": "v2"}, m.Params)
	})

	t.Run("optional group absent", func(t *testing.T) {
		t.Parallel()

		m, ok := table.Match("ui-panel")
		require.True(t, ok)
		assert.Empty(t, m.Params)
	})

	t.Run("first rule wins", func(t *testing.T) {
		t.Parallel()

		m, ok := table.Match("/")
		require.True(t, ok)
		assert.Equal(t, "index", m.Rule)
	})

	t.Run("patterns keep order and source", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{`^$`, `^api/(?P<version>v\d+)/`, `ui-panel(?P<hash>\S+)?$`}, table.Patterns())
		assert.Equal(t, "test", table.Name())
	})
}

func TestTable_ServeHTTP(t *testing.T) {
	t.Parallel()

	var version string
	table := subpath.MustTable("test",
		subpath.Rule{Pattern: `^api/(?P<version>v\d+)/`, Prefix: true, Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			version = subpath.Param(r.Context(), "version")
			_, _ = io.WriteString(w, r.URL.Path)
		})},
		subpath.Rule{Pattern: `^admin/`, Prefix: true, Handler: echo("admin")},
	)

	rec := get(t, table, "/api/v1/customer/5")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/customer/5", rec.Body.String())
	assert.Equal(t, "v1", version)

	rec = get(t, table, "/admin/")
	assert.Equal(t, "admin /", rec.Body.String())

	rec = get(t, table, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTable_NestedParams(t *testing.T) {
	t.Parallel()

	var got [2]string
	inner := subpath.MustTable("inner",
		subpath.Rule{Pattern: `^customer/(?P<id>\d+)$`, Handler: http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got[0] = subpath.Param(r.Context(), "version")
			got[1] = subpath.Param(r.Context(), "id")
		})},
	)
	outer := subpath.MustTable("outer",
		subpath.Rule{Pattern: `^api/(?P<version>v\d+)/`, Prefix: true, Handler: inner},
	)

	get(t, outer, "/api/v3/customer/12")
	assert.Equal(t, [2]string{"v3", "12"}, got)
}

func TestNewTable_Errors(t *testing.T) {
	t.Parallel()

	_, err := subpath.NewTable("bad", subpath.Rule{Pattern: `^(unclosed`, Handler: echo("x")})
	assert.ErrorIs(t, err, subpath.ErrTableBuild)

	_, err = subpath.NewTable("nil", subpath.Rule{Pattern: `^ok$`})
	assert.ErrorIs(t, err, subpath.ErrTableBuild)

	assert.Panics(t, func() {
		subpath.MustTable("bad", subpath.Rule{Pattern: `[`, Handler: echo("x")})
	})
}
