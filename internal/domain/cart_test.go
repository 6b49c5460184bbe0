package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Cart.Subtotal Tests
// ============================================================================

func TestSubtotal_SingleItem(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{UnitPrice: 1990, Quantity: 2},
		},
	}
	assert.Equal(t, int64(3980), c.Subtotal())
}

func TestSubtotal_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{UnitPrice: 1000, Quantity: 2},
			{UnitPrice: 500, Quantity: 3},
			{UnitPrice: 2500, Quantity: 1},
		},
	}
	// 2000 + 1500 + 2500 = 6000
	assert.Equal(t, int64(6000), c.Subtotal())
}

func TestSubtotal_EmptyCart(t *testing.T) {
	c := &Cart{Items: []LineItem{}}
	assert.Equal(t, int64(0), c.Subtotal())
}

func TestSubtotal_NilItems(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.Subtotal())
}

func TestSubtotal_ZeroPrice(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{UnitPrice: 0, Quantity: 5},
		},
	}
	assert.Equal(t, int64(0), c.Subtotal())
}

// ============================================================================
// Cart.ItemCount Tests
// ============================================================================

func TestItemCount_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{Quantity: 2},
			{Quantity: 3},
			{Quantity: 1},
		},
	}
	assert.Equal(t, 6, c.ItemCount())
}

func TestItemCount_EmptyCart(t *testing.T) {
	c := &Cart{Items: []LineItem{}}
	assert.Equal(t, 0, c.ItemCount())
}

// ============================================================================
// Cart.FindItemIndex / Contains Tests
// ============================================================================

func TestFindItemIndex_Found(t *testing.T) {
	c := &Cart{
		Items: []LineItem{
			{ProductID: "prod-1"},
			{ProductID: "prod-2"},
		},
	}
	assert.Equal(t, 0, c.FindItemIndex("prod-1"))
	assert.Equal(t, 1, c.FindItemIndex("prod-2"))
}

func TestFindItemIndex_NotFound(t *testing.T) {
	c := &Cart{
		Items: []LineItem{{ProductID: "prod-1"}},
	}
	assert.Equal(t, -1, c.FindItemIndex("prod-999"))
}

func TestContains(t *testing.T) {
	c := &Cart{
		Items: []LineItem{{ProductID: "prod-1"}},
	}
	assert.True(t, c.Contains("prod-1"))
	assert.False(t, c.Contains("prod-2"))
}

// ============================================================================
// Mode / Buyer Tests
// ============================================================================

func TestIsValidMode(t *testing.T) {
	assert.True(t, IsValidMode(ModeDelivery))
	assert.True(t, IsValidMode(ModePickup))
	assert.False(t, IsValidMode(ModeUnset))
	assert.False(t, IsValidMode("courier"))
}

func TestBuyerIsZero(t *testing.T) {
	assert.True(t, Buyer{}.IsZero())
	assert.False(t, Buyer{Name: "Ana"}.IsZero())
}
