package repository

import (
	"context"

	"github.com/thiago536/v0-gabycommerce-structure/internal/profile/domain"
)

// ProfileRepository provides access to profile persistence.
type ProfileRepository interface {
	// Get retrieves the profile for a user.
	Get(ctx context.Context, userID string) (*domain.Profile, error)

	// Upsert creates or replaces the profile for a user.
	Upsert(ctx context.Context, profile *domain.Profile) error
}
