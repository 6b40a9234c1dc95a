package binder

import "net/http"

// Path binds `path:"name"` fields using extractor, typically chi.URLParam.
// Empty values leave the field untouched.
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return ErrFailedToParsePath
		}
		values := make(map[string][]string)
		err := eachField(v, "path", ErrFailedToParsePath, func(name string) {
			if val := extractor(r, name); val != "" {
				values[name] = []string{val}
			}
		})
		if err != nil {
			return err
		}
		return bindToStruct(v, "path", values, ErrFailedToParsePath)
	}
}
