// Package order renders a cart snapshot into the order summary text the
// store receives. The output is byte-stable for a fixed input so message
// contents can be snapshot-tested.
package order

import (
	"fmt"
	"strings"

	"github.com/jvitormendess/jaci-api/internal/cart"
	"github.com/jvitormendess/jaci-api/internal/pricing"
)

// Details carries the delivery and payment fields appended verbatim to
// the order summary.
type Details struct {
	Name          string
	Address       string
	PaymentMethod string
}

// Format renders the order summary for the given cart lines, in
// snapshot order. Lines whose price cannot be computed client-side (a
// weight-priced product bought by count) render the "a conferir"
// marker, and any such line replaces the numeric grand total with the
// confirmation sentence.
func Format(entries []cart.Entry, d Details, storeName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Novo Pedido - %s*\n\n", storeName)
	b.WriteString("*Itens:*\n")

	pending := false
	items := make([]pricing.Item, 0, len(entries))
	for _, e := range entries {
		qty := pricing.FormatQuantity(e.Quantity, e.ChosenUnit)
		label := e.ChosenUnit.Label()
		if e.PendingPricing() {
			pending = true
			fmt.Fprintf(&b, "- %s %s %s: *(a conferir)*\n", qty, label, e.Name)
		} else {
			fmt.Fprintf(&b, "- %s %s %s: R$ %s\n", qty, label, e.Name, pricing.FormatAmount(e.LineTotal()))
		}
		items = append(items, pricing.Item{UnitPrice: e.Price, Qty: e.Quantity})
	}

	if pending {
		b.WriteString("\n*Total do Pedido: (a conferir)*\n")
		b.WriteString("Seu pedido será conferido e em alguns minutos enviaremos o total.\n\n")
	} else {
		fmt.Fprintf(&b, "\n*Total do Pedido: R$ %s*\n\n", pricing.FormatAmount(pricing.Total(items)))
	}

	b.WriteString("*Dados para Entrega:*\n")
	fmt.Fprintf(&b, "Nome: %s\n", d.Name)
	fmt.Fprintf(&b, "Endereço: %s\n", d.Address)
	fmt.Fprintf(&b, "Forma de Pagamento: %s\n\n", d.PaymentMethod)
	b.WriteString("Aguardando confirmação do pedido.")
	return b.String()
}
