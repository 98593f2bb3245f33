package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rosvit/journal-backend/internal/common"
	"github.com/rosvit/journal-backend/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFromError maps the domain sentinels onto HTTP status codes. Anything
// unrecognized is an internal error and must not leak details to the client.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrMissingToken),
		errors.Is(err, common.ErrMalformedToken),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, logger logging.Logger, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error(ctx, "failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(body); err != nil {
		logger.Error(ctx, "failed to write response", "error", err)
	}
}

// writeError reports err to the client with the mapped status. Internal errors
// are logged with the cause but answered with a generic message.
func writeError(ctx context.Context, w http.ResponseWriter, logger logging.Logger, err error) {
	code := statusFromError(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.Error(ctx, "request failed", "error", err)
		message = "internal error"
	}
	writeJSON(ctx, w, logger, code, errorResponse{Error: message})
}
