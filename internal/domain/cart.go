package domain

import "time"

// Delivery mode constants. An empty mode means the shopper has not chosen yet.
const (
	ModeUnset    = ""
	ModeDelivery = "delivery"
	ModePickup   = "pickup"
)

// IsValidMode reports whether the given mode is one a checkout can use.
func IsValidMode(mode string) bool {
	return mode == ModeDelivery || mode == ModePickup
}

// LineItem is one product line in the cart, keyed by product ID.
type LineItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
	Category  string `json:"category,omitempty"`
}

// Buyer holds the checkout contact details. All fields are optional until the
// order is submitted.
type Buyer struct {
	Name          string `json:"name,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	Comuna        string `json:"comuna,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// IsZero reports whether no buyer field has been filled in.
func (b Buyer) IsZero() bool {
	return b == Buyer{}
}

// Cart is the shopping cart ledger for one storefront session. Items keep
// insertion order so the cart view renders stably.
type Cart struct {
	SessionID    string     `json:"session_id"`
	Items        []LineItem `json:"items"`
	DeliveryMode string     `json:"delivery_mode,omitempty"`
	Buyer        Buyer      `json:"buyer"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Subtotal computes the sum of unit price times quantity over all items, in
// pesos. It is always recomputed from the items, never cached.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// ItemCount returns the sum of all line quantities (badge count).
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the line item for the given product ID,
// or -1 when the product is not in the cart.
func (c *Cart) FindItemIndex(productID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Contains reports whether the cart holds a line for the given product.
func (c *Cart) Contains(productID string) bool {
	return c.FindItemIndex(productID) >= 0
}
