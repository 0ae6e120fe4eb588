package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/delakti/faithassembly-storefront/pkg/errors"

	"github.com/delakti/faithassembly-storefront/internal/domain"
	"github.com/delakti/faithassembly-storefront/internal/event"
	"github.com/delakti/faithassembly-storefront/internal/repository"
)

// AddItemInput holds the parameters for adding an item to the cart. The
// full product snapshot travels with the request so the cart can render
// and total without further catalog reads.
type AddItemInput struct {
	Product  domain.Product
	Quantity int
	Variant  string
}

// CartService implements the business logic for cart operations. Every
// mutation is written through to the repository before returning, so the
// stored snapshot always reflects the last committed state.
type CartService struct {
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// GetCart retrieves the cart for a session. A session with no stored cart
// gets an empty one.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	items, err := s.getItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return domain.NewCart(sessionID, items), nil
}

// AddItem adds a product snapshot to the session's cart. Repeat adds of
// the same (product, variant) pair merge into one line by incrementing its
// quantity; the snapshot captured on first add is kept. A quantity below 1
// is treated as 1 rather than rejected. A variant label must be one the
// snapshot declares, when it declares any. Adding opens the cart panel.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input.Product.ID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Variant != "" && len(input.Product.Variants) > 0 && !input.Product.HasVariant(input.Variant) {
		return nil, apperrors.InvalidInput("variant is not offered for this product")
	}

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	items, err := s.getItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if idx := domain.FindLineItem(items, input.Product.ID, input.Variant); idx >= 0 {
		items[idx].Quantity += quantity
	} else {
		items = append(items, domain.LineItem{
			Product:  input.Product,
			Quantity: quantity,
			Variant:  input.Variant,
		})
	}

	if err := s.repo.Save(ctx, sessionID, items); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, sessionID, items)

	s.logger.InfoContext(ctx, "item added to cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", input.Product.ID),
		slog.String("variant", input.Variant),
		slog.Int("quantity", quantity),
	)

	cart := domain.NewCart(sessionID, items)
	cart.IsOpen = true
	return cart, nil
}

// UpdateQuantity replaces the quantity of the line matching the given
// (product, variant) pair. A quantity below 1 is a silent no-op, as is a
// pair with no matching line; neither mutates the stored cart.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID, productID, variant string, quantity int) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	items, err := s.getItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		return domain.NewCart(sessionID, items), nil
	}

	idx := domain.FindLineItem(items, productID, variant)
	if idx < 0 {
		return domain.NewCart(sessionID, items), nil
	}

	items[idx].Quantity = quantity

	if err := s.repo.Save(ctx, sessionID, items); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, sessionID, items)

	s.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.String("variant", variant),
		slog.Int("quantity", quantity),
	)

	return domain.NewCart(sessionID, items), nil
}

// RemoveItem removes the line matching the given (product, variant) pair.
// A pair with no matching line is a silent no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID, variant string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if productID == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	items, err := s.getItems(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	idx := domain.FindLineItem(items, productID, variant)
	if idx < 0 {
		return domain.NewCart(sessionID, items), nil
	}

	items = append(items[:idx], items[idx+1:]...)

	if err := s.repo.Save(ctx, sessionID, items); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}

	s.publishUpdated(ctx, sessionID, items)

	s.logger.InfoContext(ctx, "item removed from cart",
		slog.String("session_id", sessionID),
		slog.String("product_id", productID),
		slog.String("variant", variant),
	)

	return domain.NewCart(sessionID, items), nil
}

// ClearCart removes all items from the session's cart unconditionally.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.InvalidInput("session id is required")
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("session_id", sessionID),
	)

	return nil
}

// getItems loads the session's line items, mapping a missing cart to an
// empty list. Any other read error, including a corrupt stored value,
// propagates.
func (s *CartService) getItems(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	items, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.LineItem{}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return items, nil
}

// publishUpdated emits a cart.updated event; failures are logged, never
// surfaced to the shopper.
func (s *CartService) publishUpdated(ctx context.Context, sessionID string, items []domain.LineItem) {
	if err := s.producer.PublishCartUpdated(ctx, sessionID, items); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
