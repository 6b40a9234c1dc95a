// Package sanitizer normalizes user input before validation and storage.
//
//	title := sanitizer.Apply(in.Title, sanitizer.RemoveControlChars, sanitizer.SingleLine)
//	email := sanitizer.NormalizeEmail(in.Email)
//
// Transforms are plain func(string) string values, so they compose with
// Apply and Compose.
package sanitizer
