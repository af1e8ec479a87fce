package cart

import (
	"encoding/json"

	"github.com/jvitormendess/jaci-api/internal/pricing"
)

// Marshal serialises the cart into its persisted form, a JSON array of
// entries in insertion order.
func Marshal(c *Cart) ([]byte, error) {
	return json.Marshal(c.Entries())
}

// Unmarshal restores a cart from its persisted form. Empty input yields
// an empty cart. Records written before cartKey and selectedUnit
// existed are normalized into the current shape (see normalize); a cart
// already in the current schema round-trips unchanged.
func Unmarshal(data []byte) (*Cart, error) {
	if len(data) == 0 {
		return New(), nil
	}
	var raw []Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return &Cart{entries: normalize(raw)}, nil
}

// normalize migrates legacy records into the current entry schema. A
// record missing its key or carrying an unknown chosen unit gets the
// unit derived from the product's own pricing mode and the key
// resynthesized from it. Entries without a positive quantity are
// dropped; the cart never holds them.
func normalize(raw []Entry) []Entry {
	out := make([]Entry, 0, len(raw))
	for _, e := range raw {
		if !e.SaleUnit.Valid() {
			e.SaleUnit = pricing.UnitPiece
		}
		if e.Key == "" || !e.ChosenUnit.Valid() {
			if !e.ChosenUnit.Valid() {
				e.ChosenUnit = pricing.UnitPiece
				if e.SaleUnit == pricing.UnitWeight {
					e.ChosenUnit = pricing.UnitWeight
				}
			}
			e.Key = EntryKey(e.ProductID, e.ChosenUnit)
		}
		if e.Quantity.Sign() <= 0 {
			continue
		}
		out = append(out, e)
	}
	return out
}
