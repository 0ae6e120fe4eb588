package domain

import "time"

// Product is a catalog record as read from the products store. The cart
// embeds a full snapshot of the product at add time, so later catalog edits
// do not change what a shopper already placed in their cart.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Category    string    `json:"category,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Stock       int       `json:"stock"`
	Variants    []string  `json:"variants,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasVariant reports whether the given variant label is one of the
// product's declared variants. An empty label is always valid since
// variant selection is optional.
func (p *Product) HasVariant(variant string) bool {
	if variant == "" {
		return true
	}
	for _, v := range p.Variants {
		if v == variant {
			return true
		}
	}
	return false
}
