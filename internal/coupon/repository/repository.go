package repository

import (
	"context"

	"github.com/thiago536/v0-gabycommerce-structure/internal/coupon/domain"
)

// CouponRepository provides access to coupon persistence.
type CouponRepository interface {
	// GetByCode retrieves a coupon by its code, case-insensitively.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)

	// IncrementUsage bumps the coupon's usage counter after a successful
	// redemption.
	IncrementUsage(ctx context.Context, id string) error
}
