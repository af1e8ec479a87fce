package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jvitormendess/jaci-api/internal/common"
)

type Handler struct {
	Svc *Service
}

// List handles GET /products.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Svc.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	common.JSONData(w, http.StatusOK, products)
}

// Get handles GET /products/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.Svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, product)
}

// Create handles POST /admin/products.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	created, err := h.Svc.Create(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusCreated, created)
}

// Update handles PUT /admin/products/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var payload Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.ID = chi.URLParam(r, "id")
	updated, err := h.Svc.Update(r.Context(), payload)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, updated)
}

// Delete handles DELETE /admin/products/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "product not found", nil)
	case errors.Is(err, ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unexpected error", nil)
	}
}
