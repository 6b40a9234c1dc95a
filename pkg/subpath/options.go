package subpath

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/servicebond/pkg/tenant"
)

// ErrorHandler writes the response for a request whose tenant could not be
// resolved while the dispatcher runs fail-closed.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type config struct {
	static       map[string]*Table
	failClosed   bool
	errorHandler ErrorHandler
	logger       *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*config)

// WithStaticSubspace installs table for requests whose first path segment is
// name. Nil tables are ignored.
func WithStaticSubspace(name string, table *Table) Option {
	return func(c *config) {
		if name != "" && table != nil {
			c.static[name] = table
		}
	}
}

// WithFailClosed selects what happens to a request under the shop literal
// whose tenant cannot be resolved: true (the default) answers through the
// error handler, false hands it to the default router with the tenant
// segment still in the path.
func WithFailClosed(failClosed bool) Option {
	return func(c *config) {
		c.failClosed = failClosed
	}
}

// WithErrorHandler replaces tenant.DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func defaultConfig() *config {
	return &config{
		static:       make(map[string]*Table),
		failClosed:   true,
		errorHandler: tenant.DefaultErrorHandler,
		logger:       slog.New(slog.DiscardHandler),
	}
}
