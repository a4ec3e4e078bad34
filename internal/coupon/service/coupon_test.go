package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thiago536/v0-gabycommerce-structure/internal/coupon/domain"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

type mockCouponRepository struct {
	mock.Mock
}

func (m *mockCouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

func (m *mockCouponRepository) IncrementUsage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newTestService(repo *mockCouponRepository) *CouponService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewCouponService(repo, logger)
}

func percentCoupon() *domain.Coupon {
	cap := int64(1200)
	return &domain.Coupon{
		ID:                "coupon-1",
		Code:              "VERAO10",
		DiscountType:      domain.DiscountPercentage,
		DiscountValue:     10,
		MaxDiscountAmount: &cap,
		Active:            true,
	}
}

func TestApply_PercentageDiscount(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	coupon := percentCoupon()
	coupon.MaxDiscountAmount = nil
	repo.On("GetByCode", ctx, "VERAO10").Return(coupon, nil)

	applied, err := svc.Apply(ctx, "VERAO10", 10000)

	require.NoError(t, err)
	assert.Equal(t, int64(1000), applied.Discount)
}

func TestApply_PercentageCappedAtMax(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("GetByCode", ctx, "VERAO10").Return(percentCoupon(), nil)

	// 10% of R$150,00 is R$15,00 but the cap holds it at R$12,00.
	applied, err := svc.Apply(ctx, "VERAO10", 15000)

	require.NoError(t, err)
	assert.Equal(t, int64(1200), applied.Discount)
}

func TestApply_FixedDiscount(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	coupon := &domain.Coupon{
		ID:            "coupon-2",
		Code:          "BEMVINDA",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 2000,
		Active:        true,
	}
	repo.On("GetByCode", ctx, "BEMVINDA").Return(coupon, nil)

	applied, err := svc.Apply(ctx, "BEMVINDA", 10000)

	require.NoError(t, err)
	assert.Equal(t, int64(2000), applied.Discount)
}

func TestApply_FixedDiscountCappedAtMax(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	cap := int64(500)
	coupon := &domain.Coupon{
		ID:                "coupon-2",
		Code:              "BEMVINDA",
		DiscountType:      domain.DiscountFixed,
		DiscountValue:     2000,
		MaxDiscountAmount: &cap,
		Active:            true,
	}
	repo.On("GetByCode", ctx, "BEMVINDA").Return(coupon, nil)

	// The cap applies to fixed coupons too, not only percentage ones.
	applied, err := svc.Apply(ctx, "BEMVINDA", 15000)

	require.NoError(t, err)
	assert.Equal(t, int64(500), applied.Discount)
}

func TestApply_FixedDiscountNeverExceedsSubtotal(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	coupon := &domain.Coupon{
		ID:            "coupon-2",
		Code:          "BEMVINDA",
		DiscountType:  domain.DiscountFixed,
		DiscountValue: 2000,
		Active:        true,
	}
	repo.On("GetByCode", ctx, "BEMVINDA").Return(coupon, nil)

	applied, err := svc.Apply(ctx, "BEMVINDA", 1500)

	require.NoError(t, err)
	assert.Equal(t, int64(1500), applied.Discount)
}

func TestApply_UnknownCode(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	repo.On("GetByCode", ctx, "NADA").Return(nil, apperrors.NotFound("coupon", "NADA"))

	applied, err := svc.Apply(ctx, "NADA", 10000)

	assert.Nil(t, applied)
	assert.ErrorIs(t, err, apperrors.ErrCouponInvalid)
}

func TestApply_InactiveCoupon(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	coupon := percentCoupon()
	coupon.Active = false
	repo.On("GetByCode", ctx, "VERAO10").Return(coupon, nil)

	_, err := svc.Apply(ctx, "VERAO10", 10000)

	assert.ErrorIs(t, err, apperrors.ErrCouponInvalid)
}

func TestApply_ExpiredCoupon(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	expired := time.Now().UTC().Add(-time.Hour)
	coupon := percentCoupon()
	coupon.ExpiresAt = &expired
	repo.On("GetByCode", ctx, "VERAO10").Return(coupon, nil)

	_, err := svc.Apply(ctx, "VERAO10", 10000)

	assert.ErrorIs(t, err, apperrors.ErrCouponInvalid)
}

func TestApply_NotYetStarted(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	starts := time.Now().UTC().Add(time.Hour)
	coupon := percentCoupon()
	coupon.StartsAt = &starts
	repo.On("GetByCode", ctx, "VERAO10").Return(coupon, nil)

	_, err := svc.Apply(ctx, "VERAO10", 10000)

	assert.ErrorIs(t, err, apperrors.ErrCouponInvalid)
}

func TestApply_UsageLimitReached(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	limit := 100
	coupon := percentCoupon()
	coupon.UsageLimit = &limit
	coupon.UsageCount = 100
	repo.On("GetByCode", ctx, "VERAO10").Return(coupon, nil)

	_, err := svc.Apply(ctx, "VERAO10", 10000)

	assert.ErrorIs(t, err, apperrors.ErrCouponInvalid)
}

func TestApply_BelowMinimumOrder(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)
	ctx := context.Background()

	coupon := percentCoupon()
	coupon.MinOrderAmount = 5000
	repo.On("GetByCode", ctx, "VERAO10").Return(coupon, nil)

	_, err := svc.Apply(ctx, "VERAO10", 4999)

	assert.ErrorIs(t, err, apperrors.ErrCouponInvalid)
}

func TestApply_EmptyCode(t *testing.T) {
	repo := new(mockCouponRepository)
	svc := newTestService(repo)

	_, err := svc.Apply(context.Background(), "", 10000)

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
