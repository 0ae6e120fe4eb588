package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/delakti/faithassembly-storefront/internal/domain"
	pkgkafka "github.com/delakti/faithassembly-storefront/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated  = "storefront.cart.updated"
	TopicCartCleared  = "storefront.cart.cleared"
	TopicOrderCreated = "storefront.order.created"
)

// Aggregate type constants.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from the storefront service.
const SourceStorefront = "storefront-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string            `json:"session_id"`
	Items     []domain.LineItem `json:"items"`
	Total     float64           `json:"total"`
	Count     int               `json:"count"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID    string  `json:"order_id"`
	Email      string  `json:"email"`
	Total      float64 `json:"total"`
	PaymentRef string  `json:"payment_ref"`
	ItemCount  int     `json:"item_count"`
}

// Producer publishes storefront domain events to Kafka. Publishing is
// fire-and-forget from the caller's perspective; failures are logged by the
// service layer, never surfaced to the shopper.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, items []domain.LineItem) error {
	data := CartUpdatedData{
		SessionID: sessionID,
		Items:     items,
		Total:     domain.TotalOf(items),
		Count:     domain.CountOf(items),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", len(items)),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	data := OrderCreatedData{
		OrderID:    order.ID,
		Email:      order.Email,
		Total:      order.Total,
		PaymentRef: order.PaymentRef,
		ItemCount:  len(order.Items),
	}

	event, err := pkgkafka.NewEvent(TopicOrderCreated, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderCreated, event); err != nil {
		return fmt.Errorf("publish order.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.created event",
		slog.String("order_id", order.ID),
		slog.String("payment_ref", order.PaymentRef),
	)

	return nil
}
