package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oushaabdelkhaleq88/ONIGIRI/internal/domain"
	pkgkafka "github.com/oushaabdelkhaleq88/ONIGIRI/pkg/kafka"
	"github.com/oushaabdelkhaleq88/ONIGIRI/pkg/logger"
)

// Kafka topic constants for ordering domain events.
const (
	TopicCartUpdated    = "onigiri.cart.updated"
	TopicCartCleared    = "onigiri.cart.cleared"
	TopicOrderConfirmed = "onigiri.order.confirmed"
)

// Aggregate type constants.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// Source identifier for events originating from the ordering service.
const SourceOrderingService = "ordering-service"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string         `json:"session_id"`
	Lines     []CartLineData `json:"lines"`
	ItemCount int            `json:"item_count"`
	Subtotal  int64          `json:"subtotal"`
	Currency  string         `json:"currency"`
}

// CartLineData is the line payload within cart events.
type CartLineData struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// OrderConfirmedData is the payload for an order.confirmed event.
type OrderConfirmedData struct {
	OrderNumber     string `json:"order_number"`
	SessionID       string `json:"session_id"`
	FulfillmentType string `json:"fulfillment_type"`
	PaymentMethod   string `json:"payment_method"`
	ItemCount       int    `json:"item_count"`
	Total           int64  `json:"total"`
	Currency        string `json:"currency"`
}

// Producer publishes ordering domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the ordering service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	lines := make([]CartLineData, len(cart.Lines))
	for i, line := range cart.Lines {
		lines[i] = CartLineData{
			ItemID:   line.ItemID,
			Name:     line.Name,
			Price:    line.Price,
			Quantity: line.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID: cart.SessionID,
		Lines:     lines,
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
		Currency:  cart.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.SessionID, AggregateTypeCart, SourceOrderingService, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.Int("item_count", cart.ItemCount()),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceOrderingService, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}

// PublishOrderConfirmed publishes an order.confirmed event.
func (p *Producer) PublishOrderConfirmed(ctx context.Context, order *domain.Order) error {
	itemCount := 0
	for _, line := range order.Lines {
		itemCount += line.Quantity
	}

	data := OrderConfirmedData{
		OrderNumber:     order.Number,
		SessionID:       order.SessionID,
		FulfillmentType: string(order.FulfillmentType),
		PaymentMethod:   string(order.PaymentMethod),
		ItemCount:       itemCount,
		Total:           order.Totals.Total,
		Currency:        order.Currency,
	}

	event, err := pkgkafka.NewEvent(TopicOrderConfirmed, order.Number, AggregateTypeOrder, SourceOrderingService, data)
	if err != nil {
		return fmt.Errorf("create order.confirmed event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicOrderConfirmed, event); err != nil {
		return fmt.Errorf("publish order.confirmed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.confirmed event",
		slog.String("order_number", order.Number),
		slog.String("session_id", order.SessionID),
	)

	return nil
}
