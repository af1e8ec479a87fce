package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jvitormendess/jaci-api/internal/common"
)

type Handler struct {
	Svc *Service
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// Login handles POST /admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "auth not configured", nil)
		return
	}
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	result, err := h.Svc.Login(r.Context(), payload.User, payload.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials", nil)
			return
		}
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
		return
	}
	common.JSONData(w, http.StatusOK, result)
}
