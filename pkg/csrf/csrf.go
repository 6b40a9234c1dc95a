package csrf

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/servicebond/pkg/logger"
)

var ErrCrossOrigin = errors.New("csrf: cross-origin request rejected")

type disabledKey struct{}

// Disable marks every request as exempt from the CSRF check when disabled is
// true. It must run before Protect.
func Disable(disabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !disabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithDisabled(r.Context())))
		})
	}
}

// WithDisabled exempts requests carrying ctx from the check.
func WithDisabled(ctx context.Context) context.Context {
	return context.WithValue(ctx, disabledKey{}, true)
}

// Disabled reports whether the check is switched off for ctx.
func Disabled(ctx context.Context) bool {
	v, _ := ctx.Value(disabledKey{}).(bool)
	return v
}

type config struct {
	trusted      map[string]struct{}
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
	log          *slog.Logger
}

type Option func(*config)

// WithTrustedOrigins allows unsafe requests from the given origins,
// e.g. "https://ui.example.com".
func WithTrustedOrigins(origins ...string) Option {
	return func(c *config) {
		for _, o := range origins {
			c.trusted[strings.ToLower(strings.TrimRight(o, "/"))] = struct{}{}
		}
	}
}

func WithErrorHandler(h func(w http.ResponseWriter, r *http.Request, err error)) Option {
	return func(c *config) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// Protect rejects cross-origin state-changing requests using the
// Sec-Fetch-Site and Origin headers. Safe methods always pass. Requests
// carrying neither header come from non-browser clients and pass too.
func Protect(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{
		trusted:      make(map[string]struct{}),
		errorHandler: defaultErrorHandler,
		log:          logger.Discard(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if safeMethod(r.Method) || Disabled(r.Context()) || cfg.allowed(r) {
				next.ServeHTTP(w, r)
				return
			}
			cfg.log.WarnContext(r.Context(), "cross-origin request rejected",
				logger.Component("csrf"),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				slog.String("origin", r.Header.Get("Origin")),
			)
			cfg.errorHandler(w, r, ErrCrossOrigin)
		})
	}
}

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func (c *config) allowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if _, ok := c.trusted[strings.ToLower(origin)]; ok && origin != "" {
		return true
	}

	switch r.Header.Get("Sec-Fetch-Site") {
	case "same-origin", "none":
		return true
	case "":
	default:
		return false
	}

	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
