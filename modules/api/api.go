// Package api holds what the HTTP modules share: mapping of administration
// errors to HTTP classes, list envelopes and typed handler wrapping.
package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/servicebond/handler"
	"github.com/dmitrymomot/servicebond/pkg/binder"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
	"github.com/dmitrymomot/servicebond/svc/administration"
)

// Error attaches the HTTP class of a domain error. Errors that already carry
// a class, and unknown errors, are returned unchanged.
func Error(err error) error {
	var httpErr handler.HTTPError
	switch {
	case err == nil, errors.As(err, &httpErr):
		return err
	case errors.Is(err, administration.ErrShopNotFound),
		errors.Is(err, administration.ErrUserNotFound),
		errors.Is(err, administration.ErrCustomerNotFound):
		return handler.ErrNotFound.Wrap(err)
	case errors.Is(err, administration.ErrDuplicate):
		return handler.ErrConflict.Wrap(err)
	case errors.Is(err, administration.ErrForbidden):
		return handler.ErrForbidden.Wrap(err)
	}
	return err
}

// Fail renders err as a JSON error after classifying it with Error.
func Fail(err error) handler.Response {
	return handler.JSONError(Error(err))
}

// Page renders a listing with its paging metadata.
func Page[T any](page administration.Page[T], opts administration.ListOptions) handler.Response {
	limit := opts.Limit
	if limit <= 0 {
		limit = administration.DefaultLimit
	}
	return handler.JSON(page.Items, handler.WithJSONMeta(map[string]any{
		"count":  page.Count,
		"limit":  min(limit, administration.MaxLimit),
		"offset": max(opts.Offset, 0),
	}))
}

// Query wraps h binding URL query parameters.
func Query[R any](log *slog.Logger, h handler.HandlerFunc[R]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[R](binder.Query()),
		handler.WithErrorHandler[R](handler.DefaultErrorHandler(log)),
	)
}

// Path wraps h binding chi URL parameters.
func Path[R any](log *slog.Logger, h handler.HandlerFunc[R]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[R](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[R](handler.DefaultErrorHandler(log)),
	)
}

// Body wraps h binding a JSON body first and chi URL parameters second, so
// identifiers in the path win over the body.
func Body[R any](log *slog.Logger, h handler.HandlerFunc[R]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[R](binder.JSON(), binder.Path(chi.URLParam)),
		handler.WithErrorHandler[R](handler.DefaultErrorHandler(log)),
	)
}

// ID is the request of handlers addressing one object.
type ID struct {
	ID int64 `path:"id"`
}

// PathQuery wraps h binding chi URL parameters and URL query parameters.
func PathQuery[R any](log *slog.Logger, h handler.HandlerFunc[R]) http.HandlerFunc {
	return handler.Wrap(h,
		handler.WithBinders[R](binder.Path(chi.URLParam), binder.Query()),
		handler.WithErrorHandler[R](handler.DefaultErrorHandler(log)),
	)
}

// ErrUnknownShop is the one answer for every unresolved shop segment:
// malformed and unknown ids are indistinguishable to the client.
var ErrUnknownShop = handler.ErrNotFound.WithMessage("shop not found")

// TenantErrorHandler answers tenant resolution failures with a JSON error.
func TenantErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, tenant.ErrTenantNotFound) || errors.Is(err, tenant.ErrNoTenantInContext) {
		err = ErrUnknownShop
	}
	_ = handler.JSONError(err).Render(w, r)
}
