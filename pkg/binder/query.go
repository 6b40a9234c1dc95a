package binder

import "net/http"

// Query binds URL query parameters using `query:"name"` tags. Fields without
// a tag bind to their lowercased name; `query:"-"` skips a field. Slices
// accept repeated or comma-separated values.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
