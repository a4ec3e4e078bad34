package event

import (
	"context"
	"fmt"
	"log/slog"

	orderdomain "github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
	pkgkafka "github.com/thiago536/v0-gabycommerce-structure/pkg/kafka"
)

// Kafka topic constants for checkout domain events.
const (
	TopicOrderPlaced = "storefront.order.placed"
)

// Aggregate type constant.
const AggregateTypeOrder = "order"

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	UserID      string `json:"user_id,omitempty"`
	SessionID   string `json:"session_id"`
	ItemCount   int    `json:"item_count"`
	Subtotal    int64  `json:"subtotal"`
	Discount    int64  `json:"discount"`
	ShippingFee int64  `json:"shipping_fee"`
	Total       int64  `json:"total"`
	CouponCode  string `json:"coupon_code,omitempty"`
}

// Producer publishes checkout domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for checkout.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *orderdomain.Order) error {
	data := OrderPlacedData{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		SessionID:   order.SessionID,
		ItemCount:   len(order.Items),
		Subtotal:    order.Subtotal,
		Discount:    order.DiscountAmount,
		ShippingFee: order.ShippingFee,
		Total:       order.Total,
		CouponCode:  order.CouponCode,
	}

	event, err := pkgkafka.NewEvent(TopicOrderPlaced, order.ID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
	)

	return nil
}
