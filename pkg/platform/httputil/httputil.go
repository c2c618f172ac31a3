// Package httputil holds the small JSON helpers shared by all HTTP handlers.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "codee/pkg/domain-errors"
)

// errorBody is the wire shape for all error responses.
type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON serializes v with the given status. Encoding failures are logged
// by net/http; by then the status line is already gone.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a coded JSON error response. Internal errors omit
// the description so infrastructure details never reach clients.
func WriteError(w http.ResponseWriter, err error) {
	de := dErrors.AsError(err)
	body := errorBody{Error: string(de.Code)}
	if de.Code != dErrors.CodeInternal {
		body.Description = de.Description
	}
	WriteJSON(w, de.HTTPStatus(), body)
}

// DecodeAndPrepare decodes the request body into T and writes a bad_request
// response on failure. The bool result tells the handler whether to proceed.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "failed to decode request body",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed JSON body"))
		var zero T
		return zero, false
	}
	return req, true
}
