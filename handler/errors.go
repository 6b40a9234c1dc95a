package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/servicebond/pkg/binder"
	"github.com/dmitrymomot/servicebond/pkg/tenant"
	"github.com/dmitrymomot/servicebond/pkg/validator"
)

var (
	ErrNilResponse = errors.New("handler returned nil response")
	ErrRender      = errors.New("failed to render response")
)

// HTTPError is an error with a status code, a machine-readable key and the
// message shown to clients. The message never depends on the wrapped cause.
type HTTPError struct {
	Code    int
	Key     string
	Message string
}

func (e HTTPError) Error() string { return e.Key }

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Key: "bad_request", Message: "malformed request"}
	ErrForbidden           = HTTPError{Code: http.StatusForbidden, Key: "forbidden", Message: "permission denied"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Key: "not_found", Message: "not found"}
	ErrConflict            = HTTPError{Code: http.StatusConflict, Key: "conflict", Message: "already exists"}
	ErrUnsupportedMedia    = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type", Message: "unsupported media type"}
	ErrUnprocessableEntity = HTTPError{Code: http.StatusUnprocessableEntity, Key: "validation_error", Message: "validation failed"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error", Message: "Internal Server Error"}
)

// WithMessage returns a copy of e answering with msg.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// Wrap attaches an HTTP classification to err, keeping err in the chain.
func (e HTTPError) Wrap(err error) error {
	return errors.Join(e, err)
}

// Classify maps err to the HTTPError it should be answered with.
func Classify(err error) HTTPError {
	var httpErr HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case validator.IsValidationError(err):
		return ErrUnprocessableEntity
	case errors.Is(err, binder.ErrMissingContentType), errors.Is(err, binder.ErrUnsupportedMediaType):
		return ErrUnsupportedMedia
	case errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrFailedToParseQuery),
		errors.Is(err, binder.ErrFailedToParsePath):
		return ErrBadRequest
	case errors.Is(err, tenant.ErrTenantNotFound), errors.Is(err, tenant.ErrNoTenantInContext):
		return ErrNotFound
	}
	return ErrInternalServerError
}

// StatusOf returns the HTTP status code for err.
func StatusOf(err error) int {
	return Classify(err).Code
}
