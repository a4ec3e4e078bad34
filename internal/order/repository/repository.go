package repository

import (
	"context"

	"github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
)

// OrderFilter narrows List results.
type OrderFilter struct {
	UserID  *string
	Status  *string
	Page    int
	PerPage int
}

// OrderRepository provides access to order persistence.
type OrderRepository interface {
	// Create inserts the order and all of its items atomically. Either the
	// whole order lands or none of it does.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetByNumber retrieves an order by its human-friendly order number.
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)

	// List returns orders matching the filter and the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus changes the order status.
	UpdateStatus(ctx context.Context, id, status string) error

	// MarkWhatsAppSent records that the WhatsApp hand-off was opened for
	// the order.
	MarkWhatsAppSent(ctx context.Context, id string) error
}
