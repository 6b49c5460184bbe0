package domain

import (
	"fmt"
	"strings"
)

// Payment method labels shown in the order message.
var paymentLabels = map[string]string{
	"efectivo":      "Efectivo",
	"transferencia": "Transferencia",
	"tarjeta":       "Tarjeta (al recibir)",
}

// FormatCLP renders an amount in pesos with thousands separators, e.g.
// 15000 -> "$15.000".
func FormatCLP(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if neg {
		return "-$" + b.String()
	}
	return "$" + b.String()
}

// ComposeMessage renders the human-readable order summary handed to the
// dispatch channel. Sections are assembled independently and joined, so the
// inclusion rules (delivery block and fee line only for delivery orders) stay
// explicit.
func ComposeMessage(o *Order) string {
	sections := []string{
		itemsSection(o),
		deliverySection(o),
		contactSection(o),
		totalsSection(o),
	}
	return strings.Join(sections, "\n\n")
}

func itemsSection(o *Order) string {
	lines := []string{"*Nuevo pedido*"}
	for _, item := range o.Items {
		lines = append(lines, fmt.Sprintf("- %dx %s (%s c/u)",
			item.Quantity, item.Name, FormatCLP(item.UnitPrice)))
	}
	return strings.Join(lines, "\n")
}

func deliverySection(o *Order) string {
	if o.DeliveryMode == ModePickup {
		return "Entrega: Retiro en tienda"
	}

	lines := []string{
		"Entrega: Despacho a domicilio",
		"Dirección: " + o.Buyer.Address,
		"Comuna: " + o.Buyer.Comuna,
	}
	return strings.Join(lines, "\n")
}

func contactSection(o *Order) string {
	payment := paymentLabels[strings.ToLower(o.Buyer.PaymentMethod)]
	if payment == "" {
		payment = o.Buyer.PaymentMethod
	}

	lines := []string{
		"Nombre: " + o.Buyer.Name,
		"Teléfono: " + o.Buyer.Phone,
		"Pago: " + payment,
	}
	if o.Buyer.Notes != "" {
		lines = append(lines, "Notas: "+o.Buyer.Notes)
	}
	return strings.Join(lines, "\n")
}

func totalsSection(o *Order) string {
	lines := []string{"Subtotal: " + FormatCLP(o.Subtotal)}
	if o.DeliveryMode == ModeDelivery {
		fee := FormatCLP(o.DeliveryFee)
		if o.DeliveryFee == 0 {
			fee = "Gratis"
		}
		lines = append(lines, "Envío: "+fee)
	}
	lines = append(lines, "Total: "+FormatCLP(o.Total))
	return strings.Join(lines, "\n")
}
