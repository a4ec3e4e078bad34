package repository

import (
	"context"

	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/domain"
)

// LocalStore is the session-scoped favorites document store, authoritative
// for the current render.
type LocalStore interface {
	// Get retrieves the favorites document for a session.
	Get(ctx context.Context, sessionID string) (*domain.Favorites, error)

	// Save persists the favorites document, overwriting any existing one.
	Save(ctx context.Context, favorites *domain.Favorites) error

	// Delete removes the favorites document for a session.
	Delete(ctx context.Context, sessionID string) error
}

// Mirror is the remote, per-user favorites copy kept for authenticated
// shoppers. Rows are keyed by (user, product); inserts are idempotent and
// every mirror write is best-effort.
type Mirror interface {
	// Insert adds a favorites row for the user. Inserting an existing
	// (user, product) pair is a no-op.
	Insert(ctx context.Context, userID, productID string) error

	// Delete removes the matching row.
	Delete(ctx context.Context, userID, productID string) error

	// LoadForUser returns the user's rows joined with product snapshots,
	// ready to replace a local favorites list wholesale.
	LoadForUser(ctx context.Context, userID string) ([]domain.Entry, error)
}
