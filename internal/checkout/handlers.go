package checkout

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jvitormendess/jaci-api/internal/common"
)

type Handler struct {
	Svc *Service
}

// Submit handles POST /checkout for the current session.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "checkout service not configured", nil)
		return
	}
	sessionID, ok := common.SessionID(r.Context())
	if !ok || sessionID == "" {
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "session required", nil)
		return
	}
	var payload Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	out, err := h.Svc.Submit(r.Context(), sessionID, payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, out)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyCart):
		common.JSONError(w, http.StatusConflict, "EMPTY_CART", "cart is empty", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
	}
}
