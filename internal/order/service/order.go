package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/thiago536/v0-gabycommerce-structure/internal/notify"
	"github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/order/event"
	"github.com/thiago536/v0-gabycommerce-structure/internal/order/repository"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/pagination"
)

// OrderService implements the back-office order operations. Orders are
// created by checkout; this service only reads and advances them.
type OrderService struct {
	repo     repository.OrderRepository
	links    notify.LinkBuilder
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, links notify.LinkBuilder, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		links:    links,
		producer: producer,
		logger:   logger,
	}
}

// ListOrdersInput holds the parameters for listing orders.
type ListOrdersInput struct {
	UserID string
	Status string
	Params pagination.Params
}

// ListOrders returns a page of orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, input ListOrdersInput) (*pagination.Result[domain.Order], error) {
	if input.Status != "" && !domain.IsValidStatus(input.Status) {
		return nil, apperrors.InvalidInput("invalid status filter: " + input.Status)
	}

	filter := repository.OrderFilter{
		Page:    input.Params.Page,
		PerPage: input.Params.PerPage,
	}
	if input.UserID != "" {
		filter.UserID = &input.UserID
	}
	if input.Status != "" {
		filter.Status = &input.Status
	}

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := pagination.NewResult(orders, total, input.Params)
	return &result, nil
}

// GetOrder retrieves an order with its items by ID.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// GetOrderByNumber retrieves an order by its human-friendly number, as
// printed in the WhatsApp message. Lookup is case-insensitive.
func (s *OrderService) GetOrderByNumber(ctx context.Context, number string) (*domain.Order, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, apperrors.InvalidInput("order number is required")
	}
	return s.repo.GetByNumber(ctx, number)
}

// UpdateStatus advances an order along the status lifecycle. Invalid
// transitions are rejected, so a delivered order can never go back to
// pending by a mis-click in the back office.
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	if !domain.IsValidStatus(status) {
		return nil, apperrors.InvalidInput("invalid status: " + status)
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == status {
		return order, nil
	}

	if !order.CanTransitionTo(status) {
		return nil, apperrors.InvalidInput("cannot transition order from " + order.Status + " to " + status)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	oldStatus := order.Status
	order.Status = status

	s.producer.PublishStatusChanged(ctx, order, oldStatus)

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("order_number", order.OrderNumber),
		slog.String("from", oldStatus),
		slog.String("to", status),
	)

	return order, nil
}

// WhatsAppLink rebuilds the WhatsApp hand-off URL for an existing order, so
// the back office can re-open the conversation when the shopper never
// completed the original hand-off. Marks the order as sent on first use.
func (s *OrderService) WhatsAppLink(ctx context.Context, id string) (string, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	link := s.links.OrderLink(order)

	if !order.WhatsAppSent {
		if err := s.repo.MarkWhatsAppSent(ctx, id); err != nil {
			s.logger.WarnContext(ctx, "failed to mark whatsapp sent",
				slog.String("order_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return link, nil
}
