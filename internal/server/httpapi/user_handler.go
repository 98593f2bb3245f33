// Package httpapi exposes the journal backend over HTTP using chi. Handlers
// translate between DTOs and services; all error mapping lives in errors.go.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rosvit/journal-backend/internal/common"
	"github.com/rosvit/journal-backend/internal/logging"
	"github.com/rosvit/journal-backend/internal/server/models"
	"github.com/rosvit/journal-backend/internal/server/services"
)

// UserService is the account surface the handlers need.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.LoginResult, error)
	UpdatePassword(ctx context.Context, userID, password string) error
}

type UserHandler struct {
	service UserService
	logger  logging.Logger
}

func NewUserHandler(service UserService, logger logging.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(r.Context(), w, h.logger, http.StatusOK, idResponse{ID: user.ID})
}

// Login answers with the access token. Cache-Control: no-store keeps the
// credential out of shared caches.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(r.Context(), w, h.logger, http.StatusOK, result)
}

// UpdatePassword replaces the caller's credential. The path id must match the
// token subject; a mismatch is an authorization failure, not a lookup miss.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity == nil || identity.UserID != chi.URLParam(r, "userID") {
		writeError(r.Context(), w, h.logger, common.ErrorUnauthorized)
		return
	}

	var req updatePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	if err := h.service.UpdatePassword(r.Context(), identity.UserID, req.Password); err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
