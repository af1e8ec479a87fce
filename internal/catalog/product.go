package catalog

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jvitormendess/jaci-api/internal/pricing"
)

// ErrNotFound indicates the requested product could not be located.
var ErrNotFound = errors.New("product not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// Product is a catalog entry. The JSON shape matches what the
// storefront exchanges and persists, including the unit_type field that
// fixes the product's pricing mode at creation time.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	SaleUnit    pricing.Unit    `json:"unit_type"`
}

// Normalize fills defaults the same way the storefront does when
// reading rows: a missing or unknown unit_type means per-piece pricing.
func (p *Product) Normalize() {
	if !p.SaleUnit.Valid() {
		p.SaleUnit = pricing.UnitPiece
	}
}

// Validate checks the fields required to create or update a product.
func (p Product) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if p.Price.Sign() < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if !p.SaleUnit.Valid() {
		return fmt.Errorf("%w: unit_type must be unit or kg", ErrInvalidInput)
	}
	return nil
}
