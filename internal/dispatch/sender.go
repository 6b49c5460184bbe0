// Package dispatch delivers composed order messages to the shop owner. The
// storefront has no order database; the rendered message handed to a Sender
// is the order's final form.
package dispatch

import "context"

// Sender delivers an order message to a destination (for the WhatsApp
// gateway, the shop's phone number). A failed Send means the order did not
// go out and the caller must keep the cart intact.
type Sender interface {
	// Name identifies the sender in logs and health output.
	Name() string

	// Send delivers the message to the destination.
	Send(ctx context.Context, message, destination string) error
}
