package domain

import (
	"errors"
	"strings"
	"time"
)

// Delivery fee tiers in pesos. Hualpén orders ship free above the minimum;
// the remaining recognized comunas pay a flat rate at any subtotal.
const (
	FreeDeliveryMinimum = 15000
	HualpenDeliveryFee  = 1000
	RegionalDeliveryFee = 2000
)

// ErrUnknownComuna is returned when a delivery order names a comuna outside
// the delivery area. The composer rejects the order instead of guessing a fee.
var ErrUnknownComuna = errors.New("comuna is outside the delivery area")

// comunaHualpen gets its own tier; the rest of the delivery area is flat-rate.
const comunaHualpen = "hualpen"

var deliveryComunas = map[string]struct{}{
	comunaHualpen:         {},
	"concepcion":          {},
	"talcahuano":          {},
	"san pedro de la paz": {},
	"chiguayante":         {},
}

var comunaAccents = strings.NewReplacer(
	"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ü", "u", "ñ", "n",
)

// NormalizeComuna lowercases, trims, and strips accents so "Hualpén" and
// "hualpen" select the same fee tier.
func NormalizeComuna(comuna string) string {
	return comunaAccents.Replace(strings.ToLower(strings.TrimSpace(comuna)))
}

// DeliveryFee returns the delivery fee for the given mode, comuna, and
// subtotal. Pickup orders never pay a fee. Delivery to an unrecognized or
// empty comuna returns ErrUnknownComuna.
func DeliveryFee(mode, comuna string, subtotal int64) (int64, error) {
	if mode != ModeDelivery {
		return 0, nil
	}

	normalized := NormalizeComuna(comuna)
	if _, ok := deliveryComunas[normalized]; !ok {
		return 0, ErrUnknownComuna
	}

	if normalized == comunaHualpen {
		if subtotal >= FreeDeliveryMinimum {
			return 0, nil
		}
		return HualpenDeliveryFee, nil
	}

	return RegionalDeliveryFee, nil
}

// Order is an immutable snapshot assembled at checkout time. Items are copied
// from the cart so later cart mutations cannot alter a submitted order.
type Order struct {
	ID           string     `json:"id"`
	SessionID    string     `json:"session_id"`
	Items        []LineItem `json:"items"`
	DeliveryMode string     `json:"delivery_mode"`
	Buyer        Buyer      `json:"buyer"`
	Subtotal     int64      `json:"subtotal"`
	DeliveryFee  int64      `json:"delivery_fee"`
	Total        int64      `json:"total"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewOrder builds the order snapshot from the cart and buyer input. The fee
// must already have been computed via DeliveryFee.
func NewOrder(id string, cart *Cart, mode string, buyer Buyer, fee int64) *Order {
	items := make([]LineItem, len(cart.Items))
	copy(items, cart.Items)

	subtotal := cart.Subtotal()
	return &Order{
		ID:           id,
		SessionID:    cart.SessionID,
		Items:        items,
		DeliveryMode: mode,
		Buyer:        buyer,
		Subtotal:     subtotal,
		DeliveryFee:  fee,
		Total:        subtotal + fee,
		CreatedAt:    time.Now().UTC(),
	}
}
