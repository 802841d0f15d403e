package server

import (
	"context"
	"errors"
	"net/http"

	resumepdf "github.com/alnah/go-resumepdf"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Stage     string `json:"stage,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// statusFor maps a pipeline error to an HTTP status and a short code.
// ErrNotFound is checked before ErrUpstream since a 404 matches both.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, resumepdf.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, resumepdf.ErrEmptyMarkdown):
		return http.StatusUnprocessableEntity, "empty_markdown"
	case errors.Is(err, resumepdf.ErrInvalidRecordID):
		return http.StatusUnprocessableEntity, "invalid_id"
	case errors.Is(err, resumepdf.ErrNoBaseTemplate):
		return http.StatusConflict, "no_base_template"
	case errors.Is(err, resumepdf.ErrUpstream):
		return http.StatusBadGateway, "upstream"
	case errors.Is(err, resumepdf.ErrUpload):
		return http.StatusBadGateway, "upload"
	case errors.Is(err, resumepdf.ErrRenderTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "render_timeout"
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout, "canceled"
	case errors.Is(err, resumepdf.ErrRender):
		return http.StatusInternalServerError, "render"
	case errors.Is(err, resumepdf.ErrEngine):
		return http.StatusInternalServerError, "engine"
	}
	return http.StatusInternalServerError, "internal"
}
