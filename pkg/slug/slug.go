package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Option configures Make.
type Option func(*config)

type config struct {
	maxLength int
}

// MaxLength truncates the slug to n bytes. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxLength = n
		}
	}
}

// Make converts s into a lowercase ASCII slug.
//
// The input is decomposed (NFKD) so accented letters keep their base letter,
// remaining non-ASCII runes are dropped, characters other than letters,
// digits, underscores, hyphens and whitespace are removed, and runs of
// hyphens and whitespace collapse to a single "-". Leading and trailing "-"
// and "_" are trimmed.
func Make(s string, opts ...Option) string {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	var b strings.Builder
	b.Grow(len(s))

	pendingSep := false
	for _, r := range norm.NFKD.String(s) {
		if r > unicode.MaxASCII {
			continue
		}
		r = unicode.ToLower(r)
		switch {
		case r == '-' || unicode.IsSpace(r):
			pendingSep = true
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}

	out := strings.Trim(b.String(), "-_")
	if cfg.maxLength > 0 && len(out) > cfg.maxLength {
		out = strings.TrimRight(out[:cfg.maxLength], "-_")
	}
	return out
}
