package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thiago536/v0-gabycommerce-structure/internal/coupon/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/coupon/repository"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// Applied describes a successfully applied coupon.
type Applied struct {
	Coupon   *domain.Coupon `json:"coupon"`
	Discount int64          `json:"discount"`
}

// CouponService validates and applies discount codes.
type CouponService struct {
	repo   repository.CouponRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewCouponService creates a new coupon service.
func NewCouponService(repo repository.CouponRepository, logger *slog.Logger) *CouponService {
	return &CouponService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Apply validates the code against the order subtotal and returns the
// computed discount. An unknown, inactive, expired, or not-yet-applicable
// code is rejected with a coupon error rather than a bare not-found, so the
// storefront can show the rejection inline on the coupon field.
func (s *CouponService) Apply(ctx context.Context, code string, subtotal int64) (*Applied, error) {
	if code == "" {
		return nil, apperrors.InvalidInput("coupon code is required")
	}
	if subtotal < 0 {
		return nil, apperrors.InvalidInput("subtotal must not be negative")
	}

	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.CouponInvalid("coupon code not found")
		}
		return nil, err
	}

	if !coupon.Usable(s.now()) {
		return nil, apperrors.CouponInvalid("coupon is not active")
	}
	if subtotal < coupon.MinOrderAmount {
		return nil, apperrors.CouponInvalid("order subtotal is below the coupon minimum")
	}

	discount := coupon.Discount(subtotal)

	s.logger.InfoContext(ctx, "coupon applied",
		slog.String("code", coupon.Code),
		slog.Int64("subtotal", subtotal),
		slog.Int64("discount", discount),
	)

	return &Applied{Coupon: coupon, Discount: discount}, nil
}

// Redeem records a successful checkout against the coupon's usage limit.
func (s *CouponService) Redeem(ctx context.Context, id string) error {
	return s.repo.IncrementUsage(ctx, id)
}
