package repository

import (
	"context"

	"github.com/thiago536/v0-gabycommerce-structure/internal/cart/domain"
)

// LocalStore is the session-scoped cart document store. It is authoritative
// for the current render; every mutation lands here first.
type LocalStore interface {
	// Get retrieves the cart document for a session.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists the cart document, overwriting any existing one.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart document for a session.
	Delete(ctx context.Context, sessionID string) error
}

// Mirror is the remote, per-user cart_items copy kept for authenticated
// shoppers. Rows are keyed by (user, product, variant); the mirror is
// written best-effort and read back only by LoadForUser.
type Mirror interface {
	// Insert adds a cart_items row for the user.
	Insert(ctx context.Context, userID, productID, variantID string, quantity int) error

	// UpdateQuantity sets the quantity on the matching row.
	UpdateQuantity(ctx context.Context, userID, productID, variantID string, quantity int) error

	// Delete removes the matching row.
	Delete(ctx context.Context, userID, productID, variantID string) error

	// LoadForUser returns the user's rows joined with product and variant
	// snapshots, ready to replace a local cart wholesale.
	LoadForUser(ctx context.Context, userID string) ([]domain.Line, error)
}
