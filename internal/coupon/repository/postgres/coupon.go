package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiago536/v0-gabycommerce-structure/internal/coupon/domain"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// CouponRepository implements repository.CouponRepository using PostgreSQL.
type CouponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository creates a new PostgreSQL coupon repository.
func NewCouponRepository(pool *pgxpool.Pool) *CouponRepository {
	return &CouponRepository{pool: pool}
}

// GetByCode retrieves a coupon by its code. Codes are stored uppercase, so
// the lookup normalizes first.
func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `
		SELECT id, code, description, discount_type, discount_value,
		       min_order_amount, max_discount_amount, usage_limit, usage_count,
		       active, starts_at, expires_at, created_at
		FROM coupons
		WHERE code = $1`

	normalized := strings.ToUpper(strings.TrimSpace(code))

	var c domain.Coupon
	err := r.pool.QueryRow(ctx, query, normalized).Scan(
		&c.ID,
		&c.Code,
		&c.Description,
		&c.DiscountType,
		&c.DiscountValue,
		&c.MinOrderAmount,
		&c.MaxDiscountAmount,
		&c.UsageLimit,
		&c.UsageCount,
		&c.Active,
		&c.StartsAt,
		&c.ExpiresAt,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("coupon", normalized)
		}
		return nil, fmt.Errorf("get coupon by code: %w", err)
	}

	return &c, nil
}

// IncrementUsage bumps the coupon's usage counter.
func (r *CouponRepository) IncrementUsage(ctx context.Context, id string) error {
	query := `UPDATE coupons SET usage_count = usage_count + 1 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment coupon usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("coupon", id)
	}

	return nil
}
