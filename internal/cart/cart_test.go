package cart

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jvitormendess/jaci-api/internal/catalog"
	"github.com/jvitormendess/jaci-api/internal/pricing"
)

func product(id string, price string, unit pricing.Unit) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     id,
		Price:    decimal.RequireFromString(price),
		SaleUnit: unit,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestAddPieceAccumulates(t *testing.T) {
	c := New()
	p := product("arroz", "5.00", pricing.UnitPiece)
	for i := 0; i < 4; i++ {
		c.Add(p, dec("1"), "")
	}
	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if !entries[0].Quantity.Equal(dec("4")) {
		t.Fatalf("expected quantity 4, got %s", entries[0].Quantity)
	}
	if entries[0].Key != "arroz:unit" {
		t.Fatalf("unexpected key %q", entries[0].Key)
	}
}

func TestAddWeightReplacesQuantity(t *testing.T) {
	c := New()
	p := product("banana", "4.00", pricing.UnitWeight)
	c.Add(p, dec("2"), pricing.UnitWeight)
	c.Add(p, dec("5"), pricing.UnitWeight)
	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if !entries[0].Quantity.Equal(dec("5")) {
		t.Fatalf("expected absolute-set quantity 5, got %s", entries[0].Quantity)
	}
}

func TestAddNonPositiveIsNoOp(t *testing.T) {
	c := New()
	p := product("arroz", "5.00", pricing.UnitPiece)
	c.Add(p, dec("0"), "")
	c.Add(p, dec("-1"), "")
	if c.Len() != 0 {
		t.Fatalf("expected empty cart, got %d entries", c.Len())
	}
}

func TestAddForcesPieceForPieceProducts(t *testing.T) {
	c := New()
	p := product("arroz", "5.00", pricing.UnitPiece)
	c.Add(p, dec("2"), pricing.UnitWeight)
	entries := c.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].ChosenUnit != pricing.UnitPiece {
		t.Fatalf("expected chosen unit forced to unit, got %s", entries[0].ChosenUnit)
	}
	if entries[0].Key != "arroz:unit" {
		t.Fatalf("unexpected key %q", entries[0].Key)
	}
}

func TestAddWeightDefaultsToKg(t *testing.T) {
	c := New()
	p := product("banana", "4.00", pricing.UnitWeight)
	c.Add(p, dec("1.5"), "")
	entries := c.Entries()
	if entries[0].ChosenUnit != pricing.UnitWeight {
		t.Fatalf("expected kg default, got %s", entries[0].ChosenUnit)
	}
}

func TestAddSameProductDifferentUnitsKeepsTwoLines(t *testing.T) {
	c := New()
	p := product("banana", "4.00", pricing.UnitWeight)
	c.Add(p, dec("1.5"), pricing.UnitWeight)
	c.Add(p, dec("3"), pricing.UnitPiece)
	if c.Len() != 2 {
		t.Fatalf("expected two entries, got %d", c.Len())
	}
	entries := c.Entries()
	if entries[0].Key != "banana:kg" || entries[1].Key != "banana:unit" {
		t.Fatalf("unexpected keys %q %q", entries[0].Key, entries[1].Key)
	}
}

func TestAddTruncatesPieceQuantity(t *testing.T) {
	c := New()
	p := product("arroz", "5.00", pricing.UnitPiece)
	c.Add(p, dec("2.7"), "")
	if got := c.Entries()[0].Quantity; !got.Equal(dec("2")) {
		t.Fatalf("expected truncated quantity 2, got %s", got)
	}
	c.Add(p, dec("0.5"), "")
	if got := c.Entries()[0].Quantity; !got.Equal(dec("2")) {
		t.Fatalf("expected fractional add ignored, got %s", got)
	}
}

func TestUpdateQuantityAbsoluteSet(t *testing.T) {
	c := New()
	c.Add(product("banana", "4.00", pricing.UnitWeight), dec("2"), pricing.UnitWeight)
	c.UpdateQuantity("banana:kg", dec("0.5"))
	if got := c.Entries()[0].Quantity; !got.Equal(dec("0.5")) {
		t.Fatalf("expected 0.5, got %s", got)
	}
}

func TestUpdateQuantityNonPositiveRemoves(t *testing.T) {
	c := New()
	c.Add(product("arroz", "5.00", pricing.UnitPiece), dec("3"), "")
	c.UpdateQuantity("arroz:unit", dec("0"))
	if c.Len() != 0 {
		t.Fatal("expected entry removed on zero quantity")
	}
	c.Add(product("arroz", "5.00", pricing.UnitPiece), dec("3"), "")
	c.UpdateQuantity("arroz:unit", dec("-3"))
	if c.Len() != 0 {
		t.Fatal("expected entry removed on negative quantity")
	}
}

func TestUpdateQuantityUnknownKeyIsNoOp(t *testing.T) {
	c := New()
	c.Add(product("arroz", "5.00", pricing.UnitPiece), dec("3"), "")
	c.UpdateQuantity("missing:unit", dec("9"))
	if got := c.Entries()[0].Quantity; !got.Equal(dec("3")) {
		t.Fatalf("expected untouched quantity 3, got %s", got)
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	c := New()
	c.Add(product("arroz", "5.00", pricing.UnitPiece), dec("1"), "")
	c.Remove("arroz:unit")
	c.Remove("arroz:unit")
	if c.Len() != 0 {
		t.Fatal("expected empty cart")
	}
}

func TestTotalUsesPriceSnapshot(t *testing.T) {
	c := New()
	p := product("arroz", "5.00", pricing.UnitPiece)
	c.Add(p, dec("3"), "")
	p.Price = dec("9.99") // later catalog change must not affect the cart
	if got := c.Total(); !got.Equal(dec("15")) {
		t.Fatalf("expected total 15, got %s", got)
	}
}

func TestPendingPricing(t *testing.T) {
	c := New()
	c.Add(product("banana", "4.00", pricing.UnitWeight), dec("1.5"), pricing.UnitWeight)
	if c.PendingPricing() {
		t.Fatal("kg purchase of kg product must not be pending")
	}
	c.Add(product("queijo", "30.00", pricing.UnitWeight), dec("2"), pricing.UnitPiece)
	if !c.PendingPricing() {
		t.Fatal("unit purchase of kg product must be pending")
	}
}

func TestClear(t *testing.T) {
	c := New()
	c.Add(product("arroz", "5.00", pricing.UnitPiece), dec("2"), "")
	c.Clear()
	if c.Len() != 0 || c.PendingPricing() || !c.Total().Equal(decimal.Zero) {
		t.Fatal("expected cleared cart")
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := New()
	c.Add(product("arroz", "5.00", pricing.UnitPiece), dec("2"), "")
	entries := c.Entries()
	entries[0].Quantity = dec("99")
	if got := c.Entries()[0].Quantity; !got.Equal(dec("2")) {
		t.Fatalf("expected snapshot isolation, got %s", got)
	}
}
