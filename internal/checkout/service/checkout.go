package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"

	cartdomain "github.com/thiago536/v0-gabycommerce-structure/internal/cart/domain"
	cartsvc "github.com/thiago536/v0-gabycommerce-structure/internal/cart/service"
	"github.com/thiago536/v0-gabycommerce-structure/internal/checkout/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/checkout/event"
	couponsvc "github.com/thiago536/v0-gabycommerce-structure/internal/coupon/service"
	"github.com/thiago536/v0-gabycommerce-structure/internal/notify"
	orderdomain "github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
	orderrepo "github.com/thiago536/v0-gabycommerce-structure/internal/order/repository"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// Session identifies the caller: browser session ID plus the authenticated
// user ID, empty for guests. Guests can check out; the order is tied to the
// session only.
type Session struct {
	ID     string
	UserID string
}

// Carts is the cart surface checkout consumes.
type Carts interface {
	GetCart(ctx context.Context, sess cartsvc.Session) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, sess cartsvc.Session) error
}

// Coupons validates and redeems discount codes.
type Coupons interface {
	Apply(ctx context.Context, code string, subtotal int64) (*couponsvc.Applied, error)
	Redeem(ctx context.Context, id string) error
}

// PlaceOrderInput is the checkout form data.
type PlaceOrderInput struct {
	Customer   orderdomain.CustomerInfo
	CouponCode string
}

// PlacedOrder is the result of a successful checkout: the stored order and
// the WhatsApp link the storefront opens for the hand-off.
type PlacedOrder struct {
	Order       *orderdomain.Order `json:"order"`
	WhatsAppURL string             `json:"whatsapp_url"`
}

// CheckoutService turns a cart into an order.
type CheckoutService struct {
	carts    Carts
	coupons  Coupons
	orders   orderrepo.OrderRepository
	links    notify.LinkBuilder
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	carts Carts,
	coupons Coupons,
	orders orderrepo.OrderRepository,
	links notify.LinkBuilder,
	producer *event.Producer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		coupons:  coupons,
		orders:   orders,
		links:    links,
		producer: producer,
		logger:   logger,
	}
}

// Quote prices the session's current cart, optionally applying a coupon
// code, without placing an order. Used by the storefront to render the
// order summary live as the shopper types a code.
func (s *CheckoutService) Quote(ctx context.Context, sess Session, couponCode string) (*domain.Quote, error) {
	cart, err := s.carts.GetCart(ctx, cartsvc.Session{ID: sess.ID, UserID: sess.UserID})
	if err != nil {
		return nil, err
	}

	subtotal := cart.TotalPrice()

	var discount int64
	var appliedCode string
	if couponCode != "" {
		applied, err := s.coupons.Apply(ctx, couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = applied.Discount
		appliedCode = applied.Coupon.Code
	}

	quote := domain.NewQuote(subtotal, discount, appliedCode)
	return &quote, nil
}

// PlaceOrder creates an order from the session's cart: the cart lines are
// denormalized into order items at their effective prices, the order and
// items are stored atomically, and the WhatsApp hand-off link is built.
// On success the local cart is cleared; the remote cart rows stay as the
// remote copy of record.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sess Session, input PlaceOrderInput) (*PlacedOrder, error) {
	if sess.ID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cartSess := cartsvc.Session{ID: sess.ID, UserID: sess.UserID}
	cart, err := s.carts.GetCart(ctx, cartSess)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	subtotal := cart.TotalPrice()

	var applied *couponsvc.Applied
	var discount int64
	var couponCode string
	if input.CouponCode != "" {
		applied, err = s.coupons.Apply(ctx, input.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = applied.Discount
		couponCode = applied.Coupon.Code
	}

	quote := domain.NewQuote(subtotal, discount, couponCode)

	now := time.Now().UTC()
	order := &orderdomain.Order{
		ID:             uuid.New().String(),
		OrderNumber:    orderdomain.NewOrderNumber(),
		UserID:         sess.UserID,
		SessionID:      sess.ID,
		Status:         orderdomain.StatusPending,
		Customer:       input.Customer,
		Subtotal:       quote.Subtotal,
		DiscountAmount: quote.Discount,
		CouponCode:     quote.CouponCode,
		ShippingFee:    quote.ShippingFee,
		Total:          quote.Total,
		Currency:       "BRL",
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	for _, line := range cart.Items {
		item := orderdomain.OrderItem{
			ID:            uuid.New().String(),
			OrderID:       order.ID,
			ProductID:     line.ProductID,
			VariantID:     line.VariantID,
			ProductName:   line.Product.Name,
			ProductImages: append([]string(nil), line.Product.Images...),
			Price:         line.Product.EffectivePrice(),
			Quantity:      line.Quantity,
		}
		if line.Variant != nil {
			item.VariantName = line.Variant.Name
			item.VariantAttributes = maps.Clone(line.Variant.Attributes)
		}
		order.Items = append(order.Items, item)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// Redemption is recorded best-effort; the order already exists.
	if applied != nil {
		if err := s.coupons.Redeem(ctx, applied.Coupon.ID); err != nil {
			s.logger.ErrorContext(ctx, "failed to record coupon redemption",
				slog.String("coupon_id", applied.Coupon.ID),
				slog.String("order_id", order.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	whatsappURL := s.links.OrderLink(order)

	// The storefront opens the link immediately, so the flag is set here
	// rather than waiting for a callback that never comes from wa.me.
	if err := s.orders.MarkWhatsAppSent(ctx, order.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to mark whatsapp sent",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	} else {
		order.WhatsAppSent = true
	}

	// Only the local cart is cleared. The remote cart_items rows survive
	// checkout as the remote copy of record.
	if err := s.carts.ClearCart(ctx, cartSess); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sess.ID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("session_id", sess.ID),
		slog.Int64("total", order.Total),
	)

	return &PlacedOrder{Order: order, WhatsAppURL: whatsappURL}, nil
}
