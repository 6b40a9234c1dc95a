package subpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/servicebond/pkg/subpath"
)

func shopTemplate(t *testing.T) *subpath.Template {
	t.Helper()

	tpl, err := subpath.NewTemplate("shop", subpath.DefaultLiteral, subpath.DefaultPlaceholder,
		subpath.Rule{Name: "admin", Pattern: `^shop/0/admin/`, Prefix: true, Handler: echo("admin")},
		subpath.Rule{Name: "api", Pattern: `^shop/0/api/(?P<version>v\d+)/`, Prefix: true, Handler: echo("api")},
		subpath.Rule{Name: "customers", Pattern: `^shop/0/customers$`, Handler: echo("customers")},
		subpath.Rule{Name: "index", Pattern: `^shop/0/$`, Handler: echo("index")},
		subpath.Rule{Name: "bare", Pattern: `^shop/0$`, Handler: echo("bare")},
		subpath.Rule{Name: "other", Pattern: `^shop/05/`, Handler: echo("other")},
		subpath.Rule{Name: "panel", Pattern: `^ui-panel(?P<hash>\S+)?$`, Handler: echo("panel")},
	)
	require.NoError(t, err)
	return tpl
}

func TestTemplate_Specialize(t *testing.T) {
	t.Parallel()

	tpl := shopTemplate(t)
	table, err := tpl.Specialize(42)
	require.NoError(t, err)

	assert.Equal(t, []string{
		`^shop/42/admin/`,
		`^shop/42/api/(?P<version>v\d+)/`,
		`^shop/42/customers$`,
		`^shop/42/$`,
		`^shop/42$`,
		`^shop/05/`, // placeholder only as a whole segment
		`^ui-panel(?P<hash>\S+)?$`,
	}, table.Patterns())
	assert.Equal(t, "shop/42", table.Name())

	m, ok := table.Match("/shop/42/customers")
	require.True(t, ok)
	assert.Equal(t, "customers", m.Rule)

	_, ok = table.Match("/shop/0/customers")
	assert.False(t, ok, "specialized table must not match the placeholder")
	_, ok = table.Match("/shop/7/customers")
	assert.False(t, ok)
}

func TestTemplate_SpecializeIsolation(t *testing.T) {
	t.Parallel()

	tpl := shopTemplate(t)
	before := tpl.Patterns()

	first9, err := tpl.Specialize(9)
	require.NoError(t, err)
	t7, err := tpl.Specialize(7)
	require.NoError(t, err)
	again9, err := tpl.Specialize(9)
	require.NoError(t, err)

	assert.Equal(t, first9.Patterns(), again9.Patterns())
	assert.NotSame(t, first9, again9)
	assert.Equal(t, `^shop/7/admin/`, t7.Patterns()[0])
	assert.Equal(t, `^shop/9/admin/`, again9.Patterns()[0])
	assert.Equal(t, before, tpl.Patterns(), "template must stay untouched")
	assert.Equal(t, `^shop/0/admin/`, tpl.Patterns()[0])
}

func TestTemplate_PatternWithoutCaret(t *testing.T) {
	t.Parallel()

	tpl := subpath.MustTemplate("t", "shop", "0",
		subpath.Rule{Pattern: `shop/0/x$`, Handler: echo("x")},
	)
	table, err := tpl.Specialize(3)
	require.NoError(t, err)
	assert.Equal(t, []string{`shop/3/x$`}, table.Patterns())
}

func TestNewTemplate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		literal     string
		placeholder string
		rules       []subpath.Rule
	}{
		{name: "empty literal", literal: "", placeholder: "0"},
		{name: "empty placeholder", literal: "shop", placeholder: ""},
		{name: "regex literal", literal: "sh.p", placeholder: "0"},
		{name: "slash placeholder", literal: "shop", placeholder: "0/1"},
		{name: "bad pattern", literal: "shop", placeholder: "0", rules: []subpath.Rule{
			{Pattern: `^shop/0/(`, Handler: echo("x")},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := subpath.NewTemplate("t", tt.literal, tt.placeholder, tt.rules...)
			assert.ErrorIs(t, err, subpath.ErrTableBuild)
		})
	}

	assert.Panics(t, func() { subpath.MustTemplate("t", "", "0") })
}
