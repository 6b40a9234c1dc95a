package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/servicebond/pkg/validator"
)

// JSONResponse is the envelope of every API response.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j *jsonResponse) Render(w http.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

type JSONOption func(*jsonResponse)

func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) { r.status = status }
}

func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) { r.body.Meta = meta }
}

// JSON answers 200 with v as data.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError answers with the status Classify assigns to err. The message is
// the fixed one of the class; the text of err is never exposed. Validation
// errors add their per-field details.
func JSONError(err error, opts ...JSONOption) Response {
	httpErr := Classify(err)
	detail := &ErrorDetail{Code: httpErr.Key, Message: httpErr.Message}
	if detail.Message == "" {
		detail.Message = http.StatusText(httpErr.Code)
	}
	if ve := validator.ExtractValidationErrors(err); len(ve) > 0 {
		detail.Details = ve.Fields()
	}

	r := &jsonResponse{status: httpErr.Code, body: JSONResponse{Error: detail}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
