package cart

import (
	"github.com/shopspring/decimal"

	"github.com/jvitormendess/jaci-api/internal/catalog"
	"github.com/jvitormendess/jaci-api/internal/pricing"
)

// Entry is one cart line: a snapshot of the product at the time it was
// added plus the unit the customer chose for this purchase. The JSON
// shape matches the records the storefront has always persisted.
type Entry struct {
	Key         string          `json:"cartKey"`
	ProductID   string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	SaleUnit    pricing.Unit    `json:"unit_type"`
	ChosenUnit  pricing.Unit    `json:"selectedUnit"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// EntryKey derives the key identifying one (product, unit) line, e.g.
// "banana:kg". The same product may appear once per unit.
func EntryKey(productID string, unit pricing.Unit) string {
	return productID + ":" + string(unit)
}

// PendingPricing reports whether this line's true price cannot be
// computed: a weight-priced product bought by discrete count has to be
// weighed by the store before the amount is known.
func (e Entry) PendingPricing() bool {
	return e.SaleUnit == pricing.UnitWeight && e.ChosenUnit == pricing.UnitPiece
}

// LineTotal is the price-at-add-time total for this line.
func (e Entry) LineTotal() decimal.Decimal {
	return pricing.LineTotal(e.Price, e.Quantity)
}

// Cart holds the ordered cart lines for one session. It is not safe
// for concurrent use; each session owns its own instance.
type Cart struct {
	entries []Entry
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add puts product p into the cart.
//
// The effective unit is forced to per-piece when the product itself is
// piece-priced; weight-priced products default to kg unless the caller
// picked a unit. Adding to an existing kg line replaces the quantity
// ("buy exactly this much"), adding to an existing piece line
// accumulates ("one more"). Non-positive quantities are ignored.
//
// Piece quantities are truncated toward zero to whole numbers; callers
// are expected to validate their input but the cart never stores a
// fractional piece count.
func (c *Cart) Add(p catalog.Product, qty decimal.Decimal, unit pricing.Unit) {
	effective := pricing.EffectiveUnit(p.SaleUnit, unit)
	if effective == pricing.UnitPiece {
		qty = qty.Truncate(0)
	}
	if qty.Sign() <= 0 {
		return
	}

	key := EntryKey(p.ID, effective)
	for i := range c.entries {
		if c.entries[i].Key != key {
			continue
		}
		if effective == pricing.UnitWeight {
			c.entries[i].Quantity = qty
		} else {
			c.entries[i].Quantity = c.entries[i].Quantity.Add(qty)
		}
		return
	}

	c.entries = append(c.entries, Entry{
		Key:         key,
		ProductID:   p.ID,
		Name:        p.Name,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Description: p.Description,
		Category:    p.Category,
		Tags:        p.Tags,
		SaleUnit:    p.SaleUnit,
		ChosenUnit:  effective,
		Quantity:    qty,
	})
}

// UpdateQuantity sets the quantity of the line identified by key to
// exactly qty. A non-positive quantity removes the line; an unknown key
// is a no-op. Piece lines are truncated to whole numbers.
func (c *Cart) UpdateQuantity(key string, qty decimal.Decimal) {
	for i := range c.entries {
		if c.entries[i].Key != key {
			continue
		}
		if c.entries[i].ChosenUnit == pricing.UnitPiece {
			qty = qty.Truncate(0)
		}
		if qty.Sign() <= 0 {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
		c.entries[i].Quantity = qty
		return
	}
}

// Remove deletes the line identified by key. Removing an absent key is
// a no-op.
func (c *Cart) Remove(key string) {
	for i := range c.entries {
		if c.entries[i].Key == key {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.entries = nil
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.entries)
}

// Entries returns the cart lines in insertion order. The returned slice
// is a copy; mutating it does not affect the cart.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Total sums price multiplied by quantity over all lines, using each
// line's price snapshot. The value is only meaningful when
// PendingPricing reports false.
func (c *Cart) Total() decimal.Decimal {
	items := make([]pricing.Item, 0, len(c.entries))
	for _, e := range c.entries {
		items = append(items, pricing.Item{UnitPrice: e.Price, Qty: e.Quantity})
	}
	return pricing.Total(items)
}

// PendingPricing reports whether any line is a weight-priced product
// bought by discrete count, in which case the cart total has to be
// confirmed by the store.
func (c *Cart) PendingPricing() bool {
	for _, e := range c.entries {
		if e.PendingPricing() {
			return true
		}
	}
	return false
}
