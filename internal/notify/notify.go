// Package notify builds the hand-off messages that move a placed order out
// of the storefront and into the store's operator channel.
package notify

import "github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"

// LinkBuilder renders an order into a deep link the storefront opens so the
// shopper can send the order summary to the store.
type LinkBuilder interface {
	// OrderLink returns the URL to open for the given order.
	OrderLink(order *domain.Order) string
}
