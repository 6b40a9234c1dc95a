// Package slug derives URL-safe identifiers from display titles.
//
// Shops get their immutable name from the title on every save:
//
//	slug.Make("Café Olé & Co.")            // "cafe-ole-co"
//	slug.Make(title, slug.MaxLength(64))
//
// Only ASCII letters, digits, "_" and "-" survive, so the result is stable
// across locales and safe to use in URLs and unique indexes.
package slug
