package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vadimtrunov/StreamShelf/internal/config"
	"github.com/vadimtrunov/StreamShelf/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON encodes v with the given status. Encoding errors are logged; the
// status line has already been sent by then.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		config.LoggerFromContext(r.Context()).Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{
		Error:     message,
		RequestID: requestID(r),
	})
}

// statusFor maps the catalog error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var (
		transportErr *core.TransportError
		remoteErr    *core.RemoteServiceError
		decodeErr    *core.DecodeError
	)
	switch {
	case errors.Is(err, core.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &transportErr):
		return http.StatusGatewayTimeout
	case errors.As(err, &remoteErr), errors.As(err, &decodeErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeCatalogError logs err and responds with the mapped status. Upstream
// details are only exposed for caller errors.
func writeCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := config.LoggerFromContext(r.Context())

	msg := http.StatusText(status)
	switch status {
	case http.StatusBadRequest, http.StatusNotFound:
		msg = err.Error()
		logger.Debug("catalog request rejected", "status", status, "error", err)
	default:
		logger.Error("catalog request failed", "status", status, "error", err)
	}
	writeError(w, r, status, msg)
}
