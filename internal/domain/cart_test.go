package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TotalOf Tests
// ============================================================================

func TestTotalOf_SingleItem(t *testing.T) {
	items := []LineItem{
		{Product: Product{Price: 19.99}, Quantity: 2},
	}
	assert.InDelta(t, 39.98, TotalOf(items), 0.0001)
}

func TestTotalOf_MultipleItems(t *testing.T) {
	items := []LineItem{
		{Product: Product{ID: "prod-a", Price: 15.00}, Quantity: 2, Variant: "M"},
		{Product: Product{ID: "prod-b", Price: 10.00}, Quantity: 1},
	}
	assert.InDelta(t, 40.00, TotalOf(items), 0.0001)
	assert.Equal(t, 3, CountOf(items))
}

func TestTotalOf_EmptyItems(t *testing.T) {
	assert.Zero(t, TotalOf([]LineItem{}))
	assert.Zero(t, TotalOf(nil))
}

func TestTotalOf_ZeroPrice(t *testing.T) {
	items := []LineItem{
		{Product: Product{Price: 0}, Quantity: 5},
	}
	assert.Zero(t, TotalOf(items))
}

func TestTotalOf_RemovingItemChangesTotalByItsContribution(t *testing.T) {
	items := []LineItem{
		{Product: Product{ID: "prod-1", Price: 12.50}, Quantity: 2},
		{Product: Product{ID: "prod-2", Price: 7.25}, Quantity: 3},
	}
	before := TotalOf(items)
	removed := items[1].Subtotal()
	after := TotalOf(items[:1])
	assert.InDelta(t, removed, before-after, 0.0001)
}

// ============================================================================
// CountOf Tests
// ============================================================================

func TestCountOf_MultipleItems(t *testing.T) {
	items := []LineItem{
		{Quantity: 2},
		{Quantity: 3},
		{Quantity: 1},
	}
	assert.Equal(t, 6, CountOf(items))
}

func TestCountOf_EmptyItems(t *testing.T) {
	assert.Zero(t, CountOf([]LineItem{}))
}

// ============================================================================
// FindLineItem Tests
// ============================================================================

func TestFindLineItem_Found(t *testing.T) {
	items := []LineItem{
		{Product: Product{ID: "prod-1"}, Variant: "S"},
		{Product: Product{ID: "prod-2"}},
	}
	assert.Equal(t, 0, FindLineItem(items, "prod-1", "S"))
	assert.Equal(t, 1, FindLineItem(items, "prod-2", ""))
}

func TestFindLineItem_NotFound(t *testing.T) {
	items := []LineItem{
		{Product: Product{ID: "prod-1"}, Variant: "S"},
	}
	assert.Equal(t, -1, FindLineItem(items, "prod-999", "S"))
}

func TestFindLineItem_ProductMatchVariantMismatch(t *testing.T) {
	items := []LineItem{
		{Product: Product{ID: "prod-1"}, Variant: "S"},
	}
	assert.Equal(t, -1, FindLineItem(items, "prod-1", "M"))
	assert.Equal(t, -1, FindLineItem(items, "prod-1", ""))
}

func TestFindLineItem_EmptyItems(t *testing.T) {
	assert.Equal(t, -1, FindLineItem(nil, "prod-1", ""))
}

// ============================================================================
// NewCart Tests
// ============================================================================

func TestNewCart_ComputesDerivedValues(t *testing.T) {
	items := []LineItem{
		{Product: Product{ID: "prod-a", Price: 15.00}, Quantity: 2, Variant: "M"},
		{Product: Product{ID: "prod-b", Price: 10.00}, Quantity: 1},
	}

	cart := NewCart("sess-1", items)

	assert.Equal(t, "sess-1", cart.SessionID)
	assert.InDelta(t, 40.00, cart.Total, 0.0001)
	assert.Equal(t, 3, cart.Count)
	assert.False(t, cart.IsOpen)
}

func TestNewCart_NilItemsBecomesEmptySlice(t *testing.T) {
	cart := NewCart("sess-1", nil)

	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)
	assert.Zero(t, cart.Count)
}

// ============================================================================
// Money Tests
// ============================================================================

func TestMinorUnits_RoundsAtPaymentBoundary(t *testing.T) {
	assert.Equal(t, int64(4000), MinorUnits(40.00))
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	// 0.1+0.2 style float drift must not leak into the charged amount.
	assert.Equal(t, int64(30), MinorUnits(0.1+0.2))
	assert.Equal(t, int64(0), MinorUnits(0))
}

func TestFormatGBP(t *testing.T) {
	assert.Equal(t, "£40.00", FormatGBP(40))
	assert.Equal(t, "£19.99", FormatGBP(19.99))
	assert.Equal(t, "£0.50", FormatGBP(0.5))
}

// ============================================================================
// Product Tests
// ============================================================================

func TestProductHasVariant(t *testing.T) {
	p := &Product{Variants: []string{"S", "M", "L"}}

	assert.True(t, p.HasVariant("M"))
	assert.True(t, p.HasVariant(""))
	assert.False(t, p.HasVariant("XXL"))

	noVariants := &Product{}
	assert.True(t, noVariants.HasVariant(""))
	assert.False(t, noVariants.HasVariant("M"))
}
