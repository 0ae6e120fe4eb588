package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/delakti/faithassembly-storefront/pkg/database"
	apperrors "github.com/delakti/faithassembly-storefront/pkg/errors"

	"github.com/delakti/faithassembly-storefront/internal/domain"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	db database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(db database.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order header and its line items in one transaction.
// The payment reference carries a unique constraint, so writing the same
// confirmed charge twice surfaces as ErrAlreadyExists rather than a
// duplicate order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderQuery := `
		INSERT INTO orders (id, first_name, last_name, email, address, city, postcode, total, payment_ref, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err = tx.Exec(ctx, orderQuery,
		order.ID,
		order.FirstName,
		order.LastName,
		order.Email,
		order.Address,
		order.City,
		order.Postcode,
		order.Total,
		order.PaymentRef,
		order.Status,
		order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("order", "payment_ref", order.PaymentRef)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product, quantity, variant)
		VALUES ($1, $2, $3, $4, $5)`

	for i, item := range order.Items {
		productJSON, err := json.Marshal(item.Product)
		if err != nil {
			return fmt.Errorf("marshal order item product: %w", err)
		}

		if _, err := tx.Exec(ctx, itemQuery,
			order.ID,
			i,
			productJSON,
			item.Quantity,
			nullableString(item.Variant),
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether the error is a PostgreSQL unique
// constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

// nullableString returns nil if the string is empty, otherwise a pointer to the string.
func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
