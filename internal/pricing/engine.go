package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unit identifies the pricing mode of a product or cart line. The wire
// values match what the storefront persists ("unit" and "kg").
type Unit string

const (
	// UnitPiece prices the product per discrete unit.
	UnitPiece Unit = "unit"
	// UnitWeight prices the product per kilogram.
	UnitWeight Unit = "kg"
)

// Valid reports whether u is one of the known pricing modes.
func (u Unit) Valid() bool {
	return u == UnitPiece || u == UnitWeight
}

// Label returns the label used when rendering quantities ("un" or "kg").
func (u Unit) Label() string {
	if u == UnitWeight {
		return "kg"
	}
	return "un"
}

// EffectiveUnit resolves the unit a purchase is actually made in.
// Piece-priced products are always bought by the piece. Weight-priced
// products follow the requested unit when it is valid and default to
// weight otherwise.
func EffectiveUnit(saleUnit, requested Unit) Unit {
	if saleUnit != UnitWeight {
		return UnitPiece
	}
	if requested.Valid() {
		return requested
	}
	return UnitWeight
}

// Item describes a line used for total calculation.
type Item struct {
	UnitPrice decimal.Decimal
	Qty       decimal.Decimal
}

// LineTotal computes price multiplied by quantity rounded to cents.
func LineTotal(unitPrice, qty decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(qty).Round(2)
}

// Total sums line totals over all items. Non-positive quantities are
// skipped; they never belong to a valid cart.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		if it.Qty.Sign() <= 0 {
			continue
		}
		total = total.Add(LineTotal(it.UnitPrice, it.Qty))
	}
	return total
}

// FormatAmount renders a monetary value with two decimal places and a
// comma as the fractional separator ("15,00").
func FormatAmount(value decimal.Decimal) string {
	return strings.Replace(value.StringFixed(2), ".", ",", 1)
}

// FormatQuantity renders a quantity for the given unit. Weight
// quantities keep their fractional part with a comma separator and no
// forced trailing zeros ("1,5"); piece quantities are truncated toward
// zero to an integer ("3").
func FormatQuantity(qty decimal.Decimal, unit Unit) string {
	if unit == UnitWeight {
		return strings.Replace(qty.String(), ".", ",", 1)
	}
	return qty.Truncate(0).String()
}
