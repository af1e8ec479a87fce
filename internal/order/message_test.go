package order

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jvitormendess/jaci-api/internal/cart"
	"github.com/jvitormendess/jaci-api/internal/catalog"
	"github.com/jvitormendess/jaci-api/internal/pricing"
)

func entry(name, price string, sale, chosen pricing.Unit, qty string) cart.Entry {
	c := cart.New()
	c.Add(catalog.Product{
		ID:       strings.ToLower(name),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		SaleUnit: sale,
	}, decimal.RequireFromString(qty), chosen)
	return c.Entries()[0]
}

var details = Details{
	Name:          "Maria",
	Address:       "Rua A, 10",
	PaymentMethod: "Pix",
}

func TestFormatPricedCart(t *testing.T) {
	entries := []cart.Entry{
		entry("Arroz", "5.00", pricing.UnitPiece, pricing.UnitPiece, "3"),
		entry("Banana", "4.00", pricing.UnitWeight, pricing.UnitWeight, "1.5"),
	}
	got := Format(entries, details, "Mercado do Jaci")
	want := "*Novo Pedido - Mercado do Jaci*\n\n" +
		"*Itens:*\n" +
		"- 3 un Arroz: R$ 15,00\n" +
		"- 1,5 kg Banana: R$ 6,00\n" +
		"\n*Total do Pedido: R$ 21,00*\n\n" +
		"*Dados para Entrega:*\n" +
		"Nome: Maria\n" +
		"Endereço: Rua A, 10\n" +
		"Forma de Pagamento: Pix\n\n" +
		"Aguardando confirmação do pedido."
	if got != want {
		t.Fatalf("message mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestFormatPendingPricedCart(t *testing.T) {
	entries := []cart.Entry{
		entry("Queijo", "30.00", pricing.UnitWeight, pricing.UnitPiece, "2"),
	}
	got := Format(entries, details, "Mercado do Jaci")
	want := "*Novo Pedido - Mercado do Jaci*\n\n" +
		"*Itens:*\n" +
		"- 2 un Queijo: *(a conferir)*\n" +
		"\n*Total do Pedido: (a conferir)*\n" +
		"Seu pedido será conferido e em alguns minutos enviaremos o total.\n\n" +
		"*Dados para Entrega:*\n" +
		"Nome: Maria\n" +
		"Endereço: Rua A, 10\n" +
		"Forma de Pagamento: Pix\n\n" +
		"Aguardando confirmação do pedido."
	if got != want {
		t.Fatalf("message mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
	if strings.Contains(got, "R$ 60,00") {
		t.Fatal("pending line must not render a computed price")
	}
}

func TestFormatMixedCartUsesPlaceholderTotal(t *testing.T) {
	entries := []cart.Entry{
		entry("Arroz", "5.00", pricing.UnitPiece, pricing.UnitPiece, "3"),
		entry("Queijo", "30.00", pricing.UnitWeight, pricing.UnitPiece, "2"),
	}
	got := Format(entries, details, "Mercado do Jaci")
	if !strings.Contains(got, "- 3 un Arroz: R$ 15,00\n") {
		t.Fatal("priced line must keep its amount")
	}
	if !strings.Contains(got, "*Total do Pedido: (a conferir)*") {
		t.Fatal("grand total must be the placeholder sentence")
	}
	if strings.Contains(got, "*Total do Pedido: R$") {
		t.Fatal("numeric grand total must be omitted entirely")
	}
}

func TestFormatIsDeterministic(t *testing.T) {
	entries := []cart.Entry{
		entry("Banana", "4.00", pricing.UnitWeight, pricing.UnitWeight, "1.5"),
		entry("Arroz", "5.00", pricing.UnitPiece, pricing.UnitPiece, "2"),
	}
	first := Format(entries, details, "Mercado do Jaci")
	second := Format(entries, details, "Mercado do Jaci")
	if first != second {
		t.Fatal("identical inputs must produce identical output")
	}
	// Snapshot order is the only defined order.
	if strings.Index(first, "Banana") > strings.Index(first, "Arroz") {
		t.Fatal("lines must render in snapshot order")
	}
}
