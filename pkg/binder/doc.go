// Package binder fills request structs from JSON bodies, query strings and
// path parameters. Binders share one signature so handler.Wrap can apply
// several in order:
//
//	type listShops struct {
//		Search   string `query:"search"`
//		Ordering string `query:"ordering"`
//		Limit    int    `query:"limit"`
//		Offset   int    `query:"offset"`
//	}
//
//	handler.Wrap(list, handler.WithBinders[listShops](binder.Query()))
//
// Parsing failures wrap ErrFailedToParseJSON, ErrFailedToParseQuery or
// ErrFailedToParsePath; content-type problems wrap ErrMissingContentType or
// ErrUnsupportedMediaType.
package binder
