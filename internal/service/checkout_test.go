package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/delakti/faithassembly-storefront/pkg/errors"

	"github.com/delakti/faithassembly-storefront/internal/domain"
)

// --- Mocks ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

type mockCharger struct {
	mock.Mock
}

func (m *mockCharger) Charge(ctx context.Context, sourceID string, amountMinor int64) (string, error) {
	args := m.Called(ctx, sourceID, amountMinor)
	return args.String(0), args.Error(1)
}

// --- Helpers ---

func newTestCheckoutService(carts *mockCartRepository, orders *mockOrderRepository, relay *mockCharger) *CheckoutService {
	return NewCheckoutService(carts, orders, relay, newTestProducer(), newTestLogger())
}

func validInput() *CheckoutInput {
	return &CheckoutInput{
		SourceID:  "tok-abc",
		FirstName: "Grace",
		LastName:  "Adeyemi",
		Email:     "grace@example.com",
		Address:   "12 Chapel Lane",
		City:      "London",
		Postcode:  "SE1 7PB",
	}
}

func checkoutItems() []domain.LineItem {
	return []domain.LineItem{
		{Product: domain.Product{ID: "prod-tshirt", Name: "Conference T-Shirt", Price: 15.00}, Quantity: 2, Variant: "M"},
		{Product: domain.Product{ID: "prod-devotional", Name: "Daily Devotional", Price: 10.00}, Quantity: 1},
	}
}

// --- Validation ---

func TestCheckout_ValidatesShippingForm(t *testing.T) {
	svc := newTestCheckoutService(new(mockCartRepository), new(mockOrderRepository), new(mockCharger))
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*CheckoutInput)
	}{
		{"missing token", func(i *CheckoutInput) { i.SourceID = "" }},
		{"missing first name", func(i *CheckoutInput) { i.FirstName = "" }},
		{"missing last name", func(i *CheckoutInput) { i.LastName = "" }},
		{"missing email", func(i *CheckoutInput) { i.Email = "" }},
		{"email without at", func(i *CheckoutInput) { i.Email = "grace.example.com" }},
		{"email without dot in domain", func(i *CheckoutInput) { i.Email = "grace@localhost" }},
		{"missing address", func(i *CheckoutInput) { i.Address = "" }},
		{"missing city", func(i *CheckoutInput) { i.City = "" }},
		{"missing postcode", func(i *CheckoutInput) { i.Postcode = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(input)

			_, err := svc.Checkout(ctx, "sess-1", input)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}
}

// --- Empty cart guard ---

func TestCheckout_EmptyCartIsRejected(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	relay := new(mockCharger)
	svc := newTestCheckoutService(carts, orders, relay)
	ctx := context.Background()

	carts.On("Get", ctx, "sess-1").Return([]domain.LineItem{}, nil)

	_, err := svc.Checkout(ctx, "sess-1", validInput())
	assert.True(t, errors.Is(err, apperrors.ErrCartEmpty))

	relay.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything)
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_MissingCartIsRejectedAsEmpty(t *testing.T) {
	carts := new(mockCartRepository)
	svc := newTestCheckoutService(carts, new(mockOrderRepository), new(mockCharger))
	ctx := context.Background()

	carts.On("Get", ctx, "sess-1").Return(nil, apperrors.NotFound("cart", "sess-1"))

	_, err := svc.Checkout(ctx, "sess-1", validInput())
	assert.True(t, errors.Is(err, apperrors.ErrCartEmpty))
}

// --- Happy path ---

func TestCheckout_Success(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	relay := new(mockCharger)
	svc := newTestCheckoutService(carts, orders, relay)
	ctx := context.Background()

	items := checkoutItems()
	carts.On("Get", ctx, "sess-1").Return(items, nil)
	// £40.00 charged as 4000 pence: rounding happens once, at the relay boundary.
	relay.On("Charge", ctx, "tok-abc", int64(4000)).Return("pay-123", nil)
	orders.On("Create", ctx, mock.Anything).Return(nil)
	carts.On("Delete", ctx, "sess-1").Return(nil)

	order, err := svc.Checkout(ctx, "sess-1", validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "Grace", order.FirstName)
	assert.Equal(t, "pay-123", order.PaymentRef)
	assert.Equal(t, domain.OrderStatusPaid, order.Status)
	assert.InDelta(t, 40.00, order.Total, 0.0001)
	assert.Equal(t, items, order.Items, "order snapshots the cart lines at purchase time")
	assert.False(t, order.CreatedAt.IsZero())

	carts.AssertCalled(t, "Delete", ctx, "sess-1")
	carts.AssertExpectations(t)
	orders.AssertExpectations(t)
	relay.AssertExpectations(t)
}

// --- Failure semantics ---

func TestCheckout_FailedChargeLeavesCartUntouched(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	relay := new(mockCharger)
	svc := newTestCheckoutService(carts, orders, relay)
	ctx := context.Background()

	carts.On("Get", ctx, "sess-1").Return(checkoutItems(), nil)
	relay.On("Charge", ctx, "tok-abc", int64(4000)).Return("", apperrors.PaymentFailed("Card declined"))

	_, err := svc.Checkout(ctx, "sess-1", validInput())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPaymentFailed))

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckout_OrderWriteFailureKeepsCart(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	relay := new(mockCharger)
	svc := newTestCheckoutService(carts, orders, relay)
	ctx := context.Background()

	carts.On("Get", ctx, "sess-1").Return(checkoutItems(), nil)
	relay.On("Charge", ctx, "tok-abc", int64(4000)).Return("pay-123", nil)
	orders.On("Create", ctx, mock.Anything).Return(errors.New("connection lost"))

	_, err := svc.Checkout(ctx, "sess-1", validInput())
	require.Error(t, err)

	carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckout_DuplicatePaymentRefTreatedAsRecorded(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	relay := new(mockCharger)
	svc := newTestCheckoutService(carts, orders, relay)
	ctx := context.Background()

	carts.On("Get", ctx, "sess-1").Return(checkoutItems(), nil)
	relay.On("Charge", ctx, "tok-abc", int64(4000)).Return("pay-123", nil)
	orders.On("Create", ctx, mock.Anything).Return(apperrors.AlreadyExists("order", "payment_ref", "pay-123"))
	carts.On("Delete", ctx, "sess-1").Return(nil)

	order, err := svc.Checkout(ctx, "sess-1", validInput())
	require.NoError(t, err, "a duplicate order write for the same charge is idempotent")
	assert.Equal(t, "pay-123", order.PaymentRef)
	carts.AssertCalled(t, "Delete", ctx, "sess-1")
}

func TestCheckout_CartClearFailureDoesNotFailCheckout(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	relay := new(mockCharger)
	svc := newTestCheckoutService(carts, orders, relay)
	ctx := context.Background()

	carts.On("Get", ctx, "sess-1").Return(checkoutItems(), nil)
	relay.On("Charge", ctx, "tok-abc", int64(4000)).Return("pay-123", nil)
	orders.On("Create", ctx, mock.Anything).Return(nil)
	carts.On("Delete", ctx, "sess-1").Return(errors.New("redis down"))

	order, err := svc.Checkout(ctx, "sess-1", validInput())
	require.NoError(t, err)
	assert.Equal(t, "pay-123", order.PaymentRef)
}

func TestCheckout_AmountRoundedToMinorUnits(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	relay := new(mockCharger)
	svc := newTestCheckoutService(carts, orders, relay)
	ctx := context.Background()

	// Three at £0.10 accumulates float drift; the charge must still be 30p.
	items := []domain.LineItem{
		{Product: domain.Product{ID: "prod-candle", Price: 0.10}, Quantity: 3},
	}
	carts.On("Get", ctx, "sess-1").Return(items, nil)
	relay.On("Charge", ctx, "tok-abc", int64(30)).Return("pay-123", nil)
	orders.On("Create", ctx, mock.Anything).Return(nil)
	carts.On("Delete", ctx, "sess-1").Return(nil)

	_, err := svc.Checkout(ctx, "sess-1", validInput())
	require.NoError(t, err)
	relay.AssertExpectations(t)
}

func TestCheckout_CompletionLogCarriesSterlingAmount(t *testing.T) {
	carts := new(mockCartRepository)
	orders := new(mockOrderRepository)
	relay := new(mockCharger)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	svc := NewCheckoutService(carts, orders, relay, newTestProducer(), logger)
	ctx := context.Background()

	carts.On("Get", ctx, "sess-1").Return(checkoutItems(), nil)
	relay.On("Charge", ctx, "tok-abc", int64(4000)).Return("pay-123", nil)
	orders.On("Create", ctx, mock.Anything).Return(nil)
	carts.On("Delete", ctx, "sess-1").Return(nil)

	_, err := svc.Checkout(ctx, "sess-1", validInput())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "checkout completed")
	assert.Contains(t, buf.String(), "£40.00")
}
