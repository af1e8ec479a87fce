package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/jvitormendess/jaci-api/internal/catalog"
	"github.com/jvitormendess/jaci-api/internal/common"
	"github.com/jvitormendess/jaci-api/internal/pricing"
)

// ProductFinder resolves products for cart additions.
type ProductFinder interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

// Handler wires the session cart service to HTTP.
type Handler struct {
	Svc     *Service
	Catalog ProductFinder
}

type cartView struct {
	Items          []Entry `json:"items"`
	Total          string  `json:"total"`
	PendingPricing bool    `json:"pendingPricing"`
}

func view(c *Cart) cartView {
	return cartView{
		Items:          c.Entries(),
		Total:          pricing.FormatAmount(c.Total()),
		PendingPricing: c.PendingPricing(),
	}
}

// Get returns the session's cart contents and derived aggregates.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sid, ok := common.SessionID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session required", nil)
		return
	}
	c, err := h.Svc.Get(r.Context(), sid)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view(c))
}

// AddItem adds a product to the cart. Quantity and unit validation is
// handled here; the cart engine itself silently ignores bad input.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := common.SessionID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session required", nil)
		return
	}
	var payload struct {
		ProductID string           `json:"productId"`
		Quantity  *decimal.Decimal `json:"quantity"`
		Unit      string           `json:"unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.ProductID = strings.TrimSpace(payload.ProductID)
	if payload.ProductID == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "productId is required", nil)
		return
	}
	// Omitted quantity means "one more", matching the storefront button.
	qty := decimal.NewFromInt(1)
	if payload.Quantity != nil {
		qty = *payload.Quantity
	}
	if qty.Sign() <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "quantity must be positive", nil)
		return
	}
	unit := pricing.Unit(strings.TrimSpace(payload.Unit))
	if unit != "" && !unit.Valid() {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unit must be unit or kg", nil)
		return
	}

	product, err := h.Catalog.Get(r.Context(), payload.ProductID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if pricing.EffectiveUnit(product.SaleUnit, unit) == pricing.UnitPiece && !qty.Equal(qty.Truncate(0)) {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "quantity must be a whole number for unit purchases", nil)
		return
	}

	c, err := h.Svc.AddItem(r.Context(), sid, product, qty, unit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view(c))
}

// UpdateItem sets the quantity of one cart line. Quantities at or below
// zero remove the line.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := common.SessionID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session required", nil)
		return
	}
	key := chi.URLParam(r, "key")
	var payload struct {
		Quantity decimal.Decimal `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	c, err := h.Svc.UpdateQuantity(r.Context(), sid, key, payload.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view(c))
}

// RemoveItem deletes one cart line. Unknown keys are a no-op.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := common.SessionID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session required", nil)
		return
	}
	c, err := h.Svc.RemoveItem(r.Context(), sid, chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view(c))
}

// Clear empties the session's cart.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	sid, ok := common.SessionID(r.Context())
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "session required", nil)
		return
	}
	if err := h.Svc.Clear(r.Context(), sid); err != nil {
		h.writeError(w, err)
		return
	}
	common.JSONData(w, http.StatusOK, view(New()))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, catalog.ErrInvalidInput):
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
