package event

import (
	"context"
	"log/slog"

	"github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
	pkgkafka "github.com/thiago536/v0-gabycommerce-structure/pkg/kafka"
)

// Kafka topics for order lifecycle events.
const (
	TopicOrderStatusChanged = "storefront.order.status_changed"
)

// StatusChangedData is the payload for order status change events.
type StatusChangedData struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
}

// Producer publishes order domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new order event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishStatusChanged publishes an order status change event. Failures are
// logged, not returned; the status update already committed.
func (p *Producer) PublishStatusChanged(ctx context.Context, order *domain.Order, oldStatus string) {
	data := StatusChangedData{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		OldStatus:   oldStatus,
		NewStatus:   order.Status,
	}

	evt, err := pkgkafka.NewEvent(TopicOrderStatusChanged, order.ID, "order", "order-service", data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to build status changed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := p.kafka.Publish(ctx, TopicOrderStatusChanged, evt); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish status changed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}
