package repository

import (
	"context"

	"github.com/thiago536/v0-gabycommerce-structure/internal/admin/domain"
)

// AdminRepository provides access to admin user persistence.
type AdminRepository interface {
	// GetByEmail retrieves an admin user by email. Lookup is
	// case-insensitive.
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)

	// UpdateLastLogin records a successful login.
	UpdateLastLogin(ctx context.Context, id string) error
}
