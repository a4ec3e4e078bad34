package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cartdomain "github.com/thiago536/v0-gabycommerce-structure/internal/cart/domain"
	cartsvc "github.com/thiago536/v0-gabycommerce-structure/internal/cart/service"
	"github.com/thiago536/v0-gabycommerce-structure/internal/checkout/event"
	"github.com/thiago536/v0-gabycommerce-structure/internal/checkout/service"
	couponsvc "github.com/thiago536/v0-gabycommerce-structure/internal/coupon/service"
	"github.com/thiago536/v0-gabycommerce-structure/internal/notify/whatsapp"
	orderdomain "github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
	orderrepo "github.com/thiago536/v0-gabycommerce-structure/internal/order/repository"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
	pkgkafka "github.com/thiago536/v0-gabycommerce-structure/pkg/kafka"
)

// ============================================================================
// Mocks
// ============================================================================

type mockCarts struct {
	mock.Mock
}

func (m *mockCarts) GetCart(ctx context.Context, sess cartsvc.Session) (*cartdomain.Cart, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cartdomain.Cart), args.Error(1)
}

func (m *mockCarts) ClearCart(ctx context.Context, sess cartsvc.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

type mockCoupons struct {
	mock.Mock
}

func (m *mockCoupons) Apply(ctx context.Context, code string, subtotal int64) (*couponsvc.Applied, error) {
	args := m.Called(ctx, code, subtotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*couponsvc.Applied), args.Error(1)
}

func (m *mockCoupons) Redeem(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockOrderRepo struct {
	mock.Mock
}

func (m *mockOrderRepo) Create(ctx context.Context, order *orderdomain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*orderdomain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderdomain.Order), args.Error(1)
}

func (m *mockOrderRepo) GetByNumber(ctx context.Context, number string) (*orderdomain.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderdomain.Order), args.Error(1)
}

func (m *mockOrderRepo) List(ctx context.Context, filter orderrepo.OrderFilter) ([]orderdomain.Order, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]orderdomain.Order), args.Int(1), args.Error(2)
}

func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOrderRepo) MarkWhatsAppSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ============================================================================
// Helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRouter(carts *mockCarts, coupons *mockCoupons, orders *mockOrderRepo) chi.Router {
	logger := testLogger()
	links := whatsapp.NewLinkBuilder("5511999999999", "Gaby Store")
	// Publishing fails silently against the unreachable test broker.
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	producer := event.NewProducer(kafkaProducer, logger)

	svc := service.NewCheckoutService(carts, coupons, orders, links, producer, logger)
	handler := NewCheckoutHandler(svc, logger)

	r := chi.NewRouter()
	r.Mount("/api/v1/checkout", handler.Routes())
	return r
}

func testCart(sessionID, userID string) *cartdomain.Cart {
	return &cartdomain.Cart{
		SessionID: sessionID,
		UserID:    userID,
		Items: []cartdomain.Line{
			{
				ID:        "prod-1-default-1700000000000",
				ProductID: "prod-1",
				VariantID: "",
				Quantity:  2,
				Product: cartdomain.ProductSnapshot{
					ID:    "prod-1",
					Name:  "Vestido Azul",
					Price: 8990,
				},
			},
		},
		UpdatedAt: time.Now(),
	}
}

func doRequest(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Session-ID", "sess-1")
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// ============================================================================
// Tests
// ============================================================================

func TestQuote_RequiresSession(t *testing.T) {
	r := testRouter(new(mockCarts), new(mockCoupons), new(mockOrderRepo))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/quote", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-Session-ID")
}

func TestQuote_Success(t *testing.T) {
	carts := new(mockCarts)
	carts.On("GetCart", mock.Anything, mock.Anything).Return(testCart("sess-1", ""), nil)

	r := testRouter(carts, new(mockCoupons), new(mockOrderRepo))

	rec := doRequest(t, r, http.MethodPost, "/api/v1/checkout/quote", QuoteRequest{})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Subtotal    int64 `json:"subtotal"`
			ShippingFee int64 `json:"shipping_fee"`
			Total       int64 `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	// 2 x R$89,90 = R$179,80, above the free shipping threshold.
	assert.Equal(t, int64(17980), resp.Data.Subtotal)
	assert.Equal(t, int64(0), resp.Data.ShippingFee)
	assert.Equal(t, int64(17980), resp.Data.Total)
}

func TestQuote_InvalidCoupon(t *testing.T) {
	carts := new(mockCarts)
	carts.On("GetCart", mock.Anything, mock.Anything).Return(testCart("sess-1", ""), nil)

	coupons := new(mockCoupons)
	coupons.On("Apply", mock.Anything, "NOPE", mock.Anything).
		Return(nil, apperrors.CouponInvalid("coupon code not found"))

	r := testRouter(carts, coupons, new(mockOrderRepo))

	rec := doRequest(t, r, http.MethodPost, "/api/v1/checkout/quote", QuoteRequest{CouponCode: "NOPE"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "coupon code not found")
}

func TestPlaceOrder_ValidationFailure(t *testing.T) {
	r := testRouter(new(mockCarts), new(mockCoupons), new(mockOrderRepo))

	rec := doRequest(t, r, http.MethodPost, "/api/v1/checkout/", PlaceOrderRequest{
		Name: "G", // too short, everything else missing
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestPlaceOrder_Success(t *testing.T) {
	carts := new(mockCarts)
	carts.On("GetCart", mock.Anything, mock.Anything).Return(testCart("sess-1", ""), nil)
	carts.On("ClearCart", mock.Anything, mock.Anything).Return(nil)

	orders := new(mockOrderRepo)
	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	orders.On("MarkWhatsAppSent", mock.Anything, mock.AnythingOfType("string")).Return(nil)

	r := testRouter(carts, new(mockCoupons), orders)

	rec := doRequest(t, r, http.MethodPost, "/api/v1/checkout/", PlaceOrderRequest{
		Name:       "Maria Silva",
		Phone:      "11987654321",
		Email:      "maria@example.com",
		Address:    "Rua das Flores, 123",
		City:       "São Paulo",
		State:      "SP",
		PostalCode: "01310-100",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Order struct {
				OrderNumber string `json:"order_number"`
				Status      string `json:"status"`
			} `json:"order"`
			WhatsAppURL string `json:"whatsapp_url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, strings.HasPrefix(resp.Data.Order.OrderNumber, "GS"))
	assert.Equal(t, orderdomain.StatusPending, resp.Data.Order.Status)
	assert.True(t, strings.HasPrefix(resp.Data.WhatsAppURL, "https://wa.me/5511999999999?text="))

	carts.AssertCalled(t, "ClearCart", mock.Anything, mock.Anything)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	carts := new(mockCarts)
	carts.On("GetCart", mock.Anything, mock.Anything).
		Return(&cartdomain.Cart{SessionID: "sess-1"}, nil)

	r := testRouter(carts, new(mockCoupons), new(mockOrderRepo))

	rec := doRequest(t, r, http.MethodPost, "/api/v1/checkout/", PlaceOrderRequest{
		Name:       "Maria Silva",
		Phone:      "11987654321",
		Address:    "Rua das Flores, 123",
		City:       "São Paulo",
		State:      "SP",
		PostalCode: "01310-100",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
