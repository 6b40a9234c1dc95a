package subpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// DefaultLiteral is the first path segment reserved for tenant sub-sites.
	DefaultLiteral = "shop"
	// DefaultPlaceholder stands for the tenant id in template patterns.
	DefaultPlaceholder = "0"
)

// ErrTableBuild reports a routing table that cannot be compiled.
var ErrTableBuild = errors.New("subpath: routing table build failed")

// Template is a tenant routing table with a placeholder where the tenant id
// goes. Patterns that begin with "<literal>/<placeholder>" followed by "/",
// "$" or the end of the pattern get the placeholder swapped for a concrete
// id; all other patterns are copied as is. A Template is never modified.
type Template struct {
	name        string
	literal     string
	placeholder string
	rules       []Rule
	head        *regexp.Regexp
}

// NewTemplate validates rules by specializing them once for a sample id, so a
// bad pattern fails at startup instead of on the first tenant request.
func NewTemplate(name, literal, placeholder string, rules ...Rule) (*Template, error) {
	if literal == "" || placeholder == "" {
		return nil, fmt.Errorf("%w: empty literal or placeholder", ErrTableBuild)
	}
	for _, s := range []string{literal, placeholder} {
		if regexp.QuoteMeta(s) != s || strings.Contains(s, "/") {
			return nil, fmt.Errorf("%w: %q must be a plain path segment", ErrTableBuild, s)
		}
	}

	t := &Template{
		name:        name,
		literal:     literal,
		placeholder: placeholder,
		rules:       append([]Rule(nil), rules...),
		head:        regexp.MustCompile(`^\^?` + literal + `/(` + placeholder + `)(?:/|\$|$)`),
	}
	if _, err := t.Specialize(1); err != nil {
		return nil, err
	}
	return t, nil
}

// MustTemplate is like NewTemplate but panics on error.
func MustTemplate(name, literal, placeholder string, rules ...Rule) *Template {
	t, err := NewTemplate(name, literal, placeholder, rules...)
	if err != nil {
		panic(err)
	}
	return t
}

// Literal returns the reserved first path segment, e.g. "shop".
func (t *Template) Literal() string { return t.literal }

// Patterns returns the raw template patterns.
func (t *Template) Patterns() []string {
	out := make([]string, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.Pattern
	}
	return out
}

// Specialize builds a new table whose patterns carry id in place of the
// placeholder. Every call compiles fresh rules; nothing is shared with the
// template or with tables built for other ids.
func (t *Template) Specialize(id int64) (*Table, error) {
	segment := strconv.FormatInt(id, 10)
	rules := make([]Rule, len(t.rules))
	for i, r := range t.rules {
		r.Pattern = t.substitute(r.Pattern, segment)
		rules[i] = r
	}
	return NewTable(t.name+"/"+segment, rules...)
}

func (t *Template) substitute(pattern, segment string) string {
	loc := t.head.FindStringSubmatchIndex(pattern)
	if loc == nil {
		return pattern
	}
	return pattern[:loc[2]] + segment + pattern[loc[3]:]
}
