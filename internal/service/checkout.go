package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/delakti/faithassembly-storefront/pkg/errors"

	"github.com/delakti/faithassembly-storefront/internal/domain"
	"github.com/delakti/faithassembly-storefront/internal/event"
	"github.com/delakti/faithassembly-storefront/internal/repository"
)

// emailPattern accepts local@domain with at least one dot in the domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Charger exchanges a payment-method token for a confirmed charge and
// returns the gateway's payment reference.
type Charger interface {
	Charge(ctx context.Context, sourceID string, amountMinor int64) (string, error)
}

// CheckoutInput holds the shipping form and the opaque payment token
// produced by the hosted payment widget.
type CheckoutInput struct {
	SourceID  string `json:"source_id" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	Postcode  string `json:"postcode" validate:"required"`
}

// CheckoutService turns a validated shipping form plus the current cart
// into a completed order: charge first, then write the order, then clear
// the cart. No order is ever written before the relay confirms the charge,
// so a failed payment cannot leave a dangling order behind.
type CheckoutService struct {
	carts    repository.CartRepository
	orders   repository.OrderRepository
	relay    Charger
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	relay Charger,
	producer *event.Producer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		orders:   orders,
		relay:    relay,
		producer: producer,
		logger:   logger,
	}
}

// validateForm checks the shipping fields. All are required and the email
// must look like local@domain with a dot in the domain.
func validateForm(input *CheckoutInput) error {
	switch {
	case input.SourceID == "":
		return apperrors.InvalidInput("payment token is required")
	case input.FirstName == "":
		return apperrors.InvalidInput("first name is required")
	case input.LastName == "":
		return apperrors.InvalidInput("last name is required")
	case input.Email == "":
		return apperrors.InvalidInput("email is required")
	case !emailPattern.MatchString(input.Email):
		return apperrors.InvalidInput("email address is not valid")
	case input.Address == "":
		return apperrors.InvalidInput("address is required")
	case input.City == "":
		return apperrors.InvalidInput("city is required")
	case input.Postcode == "":
		return apperrors.InvalidInput("postcode is required")
	}
	return nil
}

// Checkout runs the full flow for a session: validate the form, reject an
// empty cart, charge the rounded minor-unit total through the relay, write
// the order, then clear the cart. Any failure before the order write
// leaves the cart untouched so the shopper can retry.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, input *CheckoutInput) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}
	if input == nil {
		return nil, apperrors.InvalidInput("checkout input is required")
	}

	if err := validateForm(input); err != nil {
		return nil, err
	}

	items, err := s.carts.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("get cart for checkout: %w", err)
	}
	if len(items) == 0 {
		return nil, apperrors.CartEmpty()
	}

	total := domain.TotalOf(items)
	amountMinor := domain.MinorUnits(total)

	paymentRef, err := s.relay.Charge(ctx, input.SourceID, amountMinor)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:         uuid.New().String(),
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      input.Email,
		Address:    input.Address,
		City:       input.City,
		Postcode:   input.Postcode,
		Items:      items,
		Total:      total,
		PaymentRef: paymentRef,
		Status:     domain.OrderStatusPaid,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.orders.Create(ctx, order); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			// The charge was already recorded by an earlier attempt; the
			// unique payment reference makes the write idempotent.
			s.logger.WarnContext(ctx, "order already recorded for payment reference",
				slog.String("payment_ref", paymentRef),
			)
		} else {
			// The charge succeeded but the order did not land. Keep the
			// cart so the shopper state is intact, and log the reference
			// for reconciliation.
			s.logger.ErrorContext(ctx, "order write failed after successful charge",
				slog.String("payment_ref", paymentRef),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("create order: %w", err)
		}
	}

	if err := s.carts.Delete(ctx, sessionID); err != nil {
		// The order exists and the charge is done; a stale cart is the
		// lesser harm. Log and continue.
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderCreated(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "checkout completed",
		slog.String("session_id", sessionID),
		slog.String("order_id", order.ID),
		slog.String("payment_ref", paymentRef),
		slog.String("amount", domain.FormatGBP(total)),
		slog.Int64("amount_minor", amountMinor),
	)

	return order, nil
}
