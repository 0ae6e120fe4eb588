package repository

import (
	"context"

	"github.com/delakti/faithassembly-storefront/internal/domain"
)

// ProductFilter defines filter criteria for listing catalog products.
type ProductFilter struct {
	Category *string
	Search   *string
	Page     int
	PerPage  int
}

// ProductRepository defines read access to the product catalog. The
// storefront never writes products; the admin area owns them.
type ProductRepository interface {
	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)
}

// CartRepository defines persistence for a session's cart line items. Only
// the line-item list is stored; derived totals and the panel-open flag are
// never persisted.
type CartRepository interface {
	// Get retrieves the line items for a session. Returns ErrNotFound when
	// no cart has been saved for the session.
	Get(ctx context.Context, sessionID string) ([]domain.LineItem, error)

	// Save replaces the stored line items for a session.
	Save(ctx context.Context, sessionID string, items []domain.LineItem) error

	// Delete removes the stored cart for a session.
	Delete(ctx context.Context, sessionID string) error
}

// OrderRepository defines write access to the orders store.
type OrderRepository interface {
	// Create inserts a new order. Returns ErrAlreadyExists when an order
	// with the same payment reference has already been written.
	Create(ctx context.Context, order *domain.Order) error
}
