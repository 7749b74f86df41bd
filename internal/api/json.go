package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/starford/mcpsetup/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
	Kind  string `json:"kind,omitempty" example:"malformed"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// statusFor maps an apperr kind onto an HTTP status code.
func statusFor(kind string) int {
	switch kind {
	case apperr.KindMalformed, apperr.KindCorruptConfig:
		return http.StatusConflict
	case apperr.KindUnknownTarget, apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidInput:
		return http.StatusBadRequest
	case apperr.KindPartialInstall:
		return http.StatusMultiStatus
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err with the status of its kind. Internal failures are
// logged and answered without detail.
func writeError(w http.ResponseWriter, op string, err error) {
	kind := apperr.Kind(err)
	status := statusFor(kind)
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", slog.String("kind", kind), slog.String("error", err.Error()))
	}
	if kind == apperr.KindInternal {
		writeJSON(w, status, errResponse{Error: "internal error", Kind: kind})
		return
	}
	writeJSON(w, status, errResponse{Error: err.Error(), Kind: kind})
}
