package domain

import "time"

// DiscountType distinguishes percentage coupons from fixed-amount coupons.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a checkout discount code. Monetary fields are in centavos;
// DiscountValue is a whole percent for percentage coupons and centavos for
// fixed coupons.
type Coupon struct {
	ID                string       `json:"id"`
	Code              string       `json:"code"`
	Description       string       `json:"description,omitempty"`
	DiscountType      DiscountType `json:"discount_type"`
	DiscountValue     int64        `json:"discount_value"`
	MinOrderAmount    int64        `json:"min_order_amount"`
	MaxDiscountAmount *int64       `json:"max_discount_amount,omitempty"`
	UsageLimit        *int         `json:"usage_limit,omitempty"`
	UsageCount        int          `json:"usage_count"`
	Active            bool         `json:"active"`
	StartsAt          *time.Time   `json:"starts_at,omitempty"`
	ExpiresAt         *time.Time   `json:"expires_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
}

// Usable reports whether the coupon can currently be redeemed: it is
// active, inside its validity window, and under its usage limit.
func (c *Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return false
	}
	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return false
	}
	return true
}

// Discount computes the discount in centavos for the given subtotal.
// Percentage discounts are computed on the subtotal; MaxDiscountAmount, when
// set, caps either discount type, and the result never exceeds the subtotal.
func (c *Coupon) Discount(subtotal int64) int64 {
	var discount int64
	switch c.DiscountType {
	case DiscountPercentage:
		discount = subtotal * c.DiscountValue / 100
	case DiscountFixed:
		discount = c.DiscountValue
	}
	if c.MaxDiscountAmount != nil && discount > *c.MaxDiscountAmount {
		discount = *c.MaxDiscountAmount
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
