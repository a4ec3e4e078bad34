package domain

// Shipping pricing, in centavos. Shipping is free only when the subtotal
// strictly exceeds the threshold: a cart of exactly R$150,00 still pays.
const (
	FreeShippingThreshold int64 = 15000
	ShippingFee           int64 = 1500
)

// Quote is the priced breakdown of a cart at checkout.
type Quote struct {
	Subtotal     int64  `json:"subtotal"`
	ShippingFee  int64  `json:"shipping_fee"`
	FreeShipping bool   `json:"free_shipping"`
	Discount     int64  `json:"discount"`
	CouponCode   string `json:"coupon_code,omitempty"`
	Total        int64  `json:"total"`
}

// NewQuote prices a subtotal with the given discount already computed.
// The discount applies to products only; it never offsets the shipping fee.
func NewQuote(subtotal, discount int64, couponCode string) Quote {
	q := Quote{
		Subtotal:   subtotal,
		Discount:   discount,
		CouponCode: couponCode,
	}
	if subtotal > FreeShippingThreshold {
		q.FreeShipping = true
	} else {
		q.ShippingFee = ShippingFee
	}
	q.Total = subtotal - discount + q.ShippingFee
	if q.Total < 0 {
		q.Total = 0
	}
	return q
}
