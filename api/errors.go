package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/xraph/carbon"
)

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// statusFor maps ledger errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case carbon.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.Is(err, carbon.ErrNoAccount):
		return http.StatusUnauthorized
	case errors.Is(err, carbon.ErrAggregationOverflow):
		return http.StatusUnprocessableEntity
	case carbon.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("carbon api request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestIDFrom(r.Context()),
			"error", err,
		)
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Retryable: carbon.IsRetryable(err)})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}
