package domain

// LineItem is a single cart entry. The full product snapshot is embedded
// rather than referenced by id, so the cart renders and totals without
// further catalog reads.
type LineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Variant  string  `json:"variant,omitempty"`
}

// Subtotal returns price multiplied by quantity for this line.
func (li *LineItem) Subtotal() float64 {
	return li.Product.Price * float64(li.Quantity)
}

// Cart is the session-scoped view of a shopper's selection. Only Items is
// persisted; Total and Count are recomputed on every read, and IsOpen is a
// transient panel-visibility hint for the storefront UI.
type Cart struct {
	SessionID string     `json:"session_id"`
	Items     []LineItem `json:"items"`
	Total     float64    `json:"total"`
	Count     int        `json:"count"`
	IsOpen    bool       `json:"is_open"`
}

// NewCart assembles a cart view from persisted line items, computing the
// derived totals.
func NewCart(sessionID string, items []LineItem) *Cart {
	if items == nil {
		items = []LineItem{}
	}
	return &Cart{
		SessionID: sessionID,
		Items:     items,
		Total:     TotalOf(items),
		Count:     CountOf(items),
	}
}

// TotalOf sums price multiplied by quantity across the given line items.
func TotalOf(items []LineItem) float64 {
	var total float64
	for i := range items {
		total += items[i].Subtotal()
	}
	return total
}

// CountOf sums quantities across the given line items.
func CountOf(items []LineItem) int {
	var count int
	for i := range items {
		count += items[i].Quantity
	}
	return count
}

// FindLineItem returns the index of the line item matching the given
// product id and variant label, or -1 if no such line exists. At most one
// line item exists per (product, variant) pair.
func FindLineItem(items []LineItem, productID, variant string) int {
	for i := range items {
		if items[i].Product.ID == productID && items[i].Variant == variant {
			return i
		}
	}
	return -1
}
