package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Order status constants.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCanceled  = "canceled"
)

// CustomerInfo is the contact and delivery data collected at checkout.
type CustomerInfo struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email,omitempty"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Notes      string `json:"notes,omitempty"`
}

// Order is a placed storefront order. All monetary amounts are in centavos.
type Order struct {
	ID             string       `json:"id"`
	OrderNumber    string       `json:"order_number"`
	UserID         string       `json:"user_id,omitempty"`
	SessionID      string       `json:"session_id"`
	Status         string       `json:"status"`
	Items          []OrderItem  `json:"items"`
	Customer       CustomerInfo `json:"customer"`
	Subtotal       int64        `json:"subtotal"`
	DiscountAmount int64        `json:"discount_amount"`
	CouponCode     string       `json:"coupon_code,omitempty"`
	ShippingFee    int64        `json:"shipping_fee"`
	Total          int64        `json:"total"`
	Currency       string       `json:"currency"`
	WhatsAppSent   bool         `json:"whatsapp_sent"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// OrderItem is one purchased line, denormalized from the cart at placement
// time so later catalog edits never rewrite order history. The snapshot
// carries the product images and variant attributes as sold, not just the
// names.
type OrderItem struct {
	ID                string            `json:"id"`
	OrderID           string            `json:"order_id"`
	ProductID         string            `json:"product_id"`
	VariantID         string            `json:"variant_id,omitempty"`
	ProductName       string            `json:"product_name"`
	ProductImages     []string          `json:"product_images,omitempty"`
	VariantName       string            `json:"variant_name,omitempty"`
	VariantAttributes map[string]string `json:"variant_attributes,omitempty"`
	Price             int64             `json:"price"`
	Quantity          int               `json:"quantity"`
}

// Subtotal returns price times quantity for the item.
func (i *OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

// NewOrderNumber generates a human-friendly order number: the "GS" store
// prefix followed by eight random digits. Collisions are caught by the
// unique constraint on orders.order_number.
func NewOrderNumber() string {
	return fmt.Sprintf("GS%08d", rand.IntN(100000000))
}

// ValidStatuses returns all valid order statuses.
func ValidStatuses() []string {
	return []string{
		StatusPending,
		StatusConfirmed,
		StatusPaid,
		StatusShipped,
		StatusDelivered,
		StatusCanceled,
	}
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// AllowedTransitions defines which status transitions are valid.
func AllowedTransitions() map[string][]string {
	return map[string][]string{
		StatusPending:   {StatusConfirmed, StatusCanceled},
		StatusConfirmed: {StatusPaid, StatusCanceled},
		StatusPaid:      {StatusShipped, StatusCanceled},
		StatusShipped:   {StatusDelivered},
		StatusDelivered: {},
		StatusCanceled:  {},
	}
}

// CanTransitionTo checks if the order can transition to the target status.
func (o *Order) CanTransitionTo(target string) bool {
	allowed, ok := AllowedTransitions()[o.Status]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}
