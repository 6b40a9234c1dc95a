package subpath

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// Rule is one entry of a routing table.
//
// Pattern is a regular expression matched against the request path without
// its leading slash. Matching is anchored at the start of the path, so a
// leading "^" is optional; end anchoring is up to the pattern. Named groups
// become request parameters readable with Param.
//
// When Prefix is set the matched part is consumed and the handler sees the
// remainder as its URL path, which lets a chi router be mounted below a
// pattern such as `^admin/`.
type Rule struct {
	Name    string
	Pattern string
	Handler http.Handler
	Prefix  bool
}

type compiledRule struct {
	name    string
	source  string
	re      *regexp.Regexp
	handler http.Handler
	prefix  bool
}

// Table is an ordered, immutable list of compiled rules.
// A Table is safe for concurrent use.
type Table struct {
	name  string
	rules []compiledRule
}

// Match is the outcome of a successful lookup.
type Match struct {
	Rule    string
	Handler http.Handler
	Params  map[string]string
	// Prefix reports a prefix rule; Rest is then the unconsumed tail.
	Prefix bool
	Rest   string
}

// NewTable compiles rules into a table. Invalid patterns and missing handlers
// are reported as ErrTableBuild.
func NewTable(name string, rules ...Rule) (*Table, error) {
	t := &Table{name: name, rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		cr, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("%w: table %q rule %d: %w", ErrTableBuild, name, i, err)
		}
		t.rules = append(t.rules, cr)
	}
	return t, nil
}

// MustTable is like NewTable but panics on error.
func MustTable(name string, rules ...Rule) *Table {
	t, err := NewTable(name, rules...)
	if err != nil {
		panic(err)
	}
	return t
}

func compileRule(r Rule) (compiledRule, error) {
	if r.Handler == nil {
		return compiledRule{}, fmt.Errorf("pattern %q has no handler", r.Pattern)
	}
	src := r.Pattern
	if !strings.HasPrefix(src, "^") {
		src = "^" + src
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return compiledRule{}, err
	}
	return compiledRule{
		name:    r.Name,
		source:  r.Pattern,
		re:      re,
		handler: r.Handler,
		prefix:  r.Prefix,
	}, nil
}

// Name returns the label the table was built with.
func (t *Table) Name() string { return t.name }

// Patterns returns the pattern sources in rule order.
func (t *Table) Patterns() []string {
	out := make([]string, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.source
	}
	return out
}

// Match finds the first rule matching path. The leading slash is ignored.
func (t *Table) Match(path string) (Match, bool) {
	path = strings.TrimPrefix(path, "/")
	for _, r := range t.rules {
		loc := r.re.FindStringSubmatchIndex(path)
		if loc == nil {
			continue
		}
		m := Match{Rule: r.name, Handler: r.handler, Prefix: r.prefix}
		for i, name := range r.re.SubexpNames() {
			if name == "" || loc[2*i] < 0 {
				continue
			}
			if m.Params == nil {
				m.Params = make(map[string]string)
			}
			m.Params[name] = path[loc[2*i]:loc[2*i+1]]
		}
		if r.prefix {
			m.Rest = path[loc[1]:]
		}
		return m, true
	}
	return Match{}, false
}

// ServeHTTP dispatches r to the first matching rule or replies 404.
func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m, ok := t.Match(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if len(m.Params) > 0 {
		r = r.WithContext(withParams(r.Context(), m.Params))
	}
	if m.Prefix {
		r = stripPrefix(r, m.Rest)
	}
	m.Handler.ServeHTTP(w, r)
}

func stripPrefix(r *http.Request, rest string) *http.Request {
	r2 := r.Clone(r.Context())
	r2.URL.Path = "/" + rest
	r2.URL.RawPath = ""
	return r2
}
