package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/order/repository"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/database"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// --- Test Helpers ---

func newTestRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{
		Name:       "Maria Silva",
		Phone:      "+5511998765432",
		Email:      "maria@example.com",
		Address:    "Rua das Flores, 123",
		City:       "São Paulo",
		State:      "SP",
		PostalCode: "01310-100",
	}
}

func sampleOrder() *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Order{
		ID:             "order-001",
		OrderNumber:    "GS12345678",
		UserID:         "user-001",
		SessionID:      "sess-001",
		Status:         domain.StatusPending,
		Customer:       sampleCustomer(),
		Subtotal:       17980,
		DiscountAmount: 1200,
		CouponCode:     "VERAO10",
		ShippingFee:    0,
		Total:          16780,
		Currency:       "BRL",
		CreatedAt:      now,
		UpdatedAt:      now,
		Items: []domain.OrderItem{
			{
				ID:                "item-001",
				OrderID:           "order-001",
				ProductID:         "prod-001",
				VariantID:         "var-001",
				ProductName:       "Biquíni Cintura Alta",
				ProductImages:     []string{"/products/biquini-cintura-alta-1.jpg", "/products/biquini-cintura-alta-2.jpg"},
				VariantName:       "M / Rosa",
				VariantAttributes: map[string]string{"color": "Rosa", "size": "M"},
				Price:             8990,
				Quantity:          2,
			},
		},
	}
}

// --- Create Tests ---

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.OrderNumber, o.UserID, o.SessionID, o.Status,
			pgxmock.AnyArg(), // customer JSON
			o.Subtotal, o.DiscountAmount, o.CouponCode, o.ShippingFee, o.Total,
			o.Currency, o.WhatsAppSent,
			o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	for _, item := range o.Items {
		imagesJSON, err := json.Marshal(item.ProductImages)
		require.NoError(t, err)
		attributesJSON, err := json.Marshal(item.VariantAttributes)
		require.NoError(t, err)

		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(
				item.ID, item.OrderID, item.ProductID, item.VariantID,
				item.ProductName, imagesJSON, item.VariantName, attributesJSON,
				item.Price, item.Quantity,
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}

	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_GuestOrderNullUser(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()
	o.UserID = ""
	o.Items = nil

	mock.ExpectBegin()

	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.OrderNumber, nil, o.SessionID, o.Status,
			pgxmock.AnyArg(),
			o.Subtotal, o.DiscountAmount, o.CouponCode, o.ShippingFee, o.Total,
			o.Currency, o.WhatsAppSent,
			o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_BeginError(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), sampleOrder())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_ItemInsertErrorRollsBack(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.OrderNumber, o.UserID, o.SessionID, o.Status,
			pgxmock.AnyArg(),
			o.Subtotal, o.DiscountAmount, o.CouponCode, o.ShippingFee, o.Total,
			o.Currency, o.WhatsAppSent,
			o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").
		WithArgs(
			o.Items[0].ID, o.Items[0].OrderID, o.Items[0].ProductID, o.Items[0].VariantID,
			o.Items[0].ProductName, pgxmock.AnyArg(), o.Items[0].VariantName, pgxmock.AnyArg(),
			o.Items[0].Price, o.Items[0].Quantity,
		).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert order item")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- GetByID Tests ---

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()
	customerJSON, err := json.Marshal(o.Customer)
	require.NoError(t, err)
	itemsJSON, err := json.Marshal(o.Items)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"id", "order_number", "user_id", "session_id", "status", "customer",
		"subtotal", "discount_amount", "coupon_code", "shipping_fee", "total",
		"currency", "whatsapp_sent", "created_at", "updated_at", "items",
	}).AddRow(
		o.ID, o.OrderNumber, &o.UserID, o.SessionID, o.Status, customerJSON,
		o.Subtotal, o.DiscountAmount, &o.CouponCode, o.ShippingFee, o.Total,
		o.Currency, o.WhatsAppSent, o.CreatedAt, o.UpdatedAt, itemsJSON,
	)

	mock.ExpectQuery("SELECT").WithArgs(o.ID).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, got.OrderNumber)
	assert.Equal(t, o.Customer.Name, got.Customer.Name)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Biquíni Cintura Alta", got.Items[0].ProductName)
	assert.Equal(t, o.Items[0].ProductImages, got.Items[0].ProductImages)
	assert.Equal(t, o.Items[0].VariantAttributes, got.Items[0].VariantAttributes)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectQuery("SELECT").WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "missing")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- List Tests ---

func TestOrderRepository_List_StatusFilter(t *testing.T) {
	repo, mock := newTestRepo(t)

	o := sampleOrder()
	customerJSON, err := json.Marshal(o.Customer)
	require.NoError(t, err)

	rows := pgxmock.NewRows([]string{
		"id", "order_number", "user_id", "session_id", "status", "customer",
		"subtotal", "discount_amount", "coupon_code", "shipping_fee", "total",
		"currency", "whatsapp_sent", "created_at", "updated_at", "total_count",
	}).AddRow(
		o.ID, o.OrderNumber, &o.UserID, o.SessionID, o.Status, customerJSON,
		o.Subtotal, o.DiscountAmount, &o.CouponCode, o.ShippingFee, o.Total,
		o.Currency, o.WhatsAppSent, o.CreatedAt, o.UpdatedAt, 1,
	)

	status := domain.StatusPending
	mock.ExpectQuery("SELECT").WithArgs(status, 20, 0).WillReturnRows(rows)

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		Status: &status,
		Page:   1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "GS12345678", orders[0].OrderNumber)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// --- UpdateStatus Tests ---

func TestOrderRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.StatusConfirmed, pgxmock.AnyArg(), "order-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "order-001", domain.StatusConfirmed)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.StatusConfirmed, pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusConfirmed)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- MarkWhatsAppSent Tests ---

func TestOrderRepository_MarkWhatsAppSent(t *testing.T) {
	repo, mock := newTestRepo(t)

	mock.ExpectExec("UPDATE orders").
		WithArgs(pgxmock.AnyArg(), "order-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.MarkWhatsAppSent(context.Background(), "order-001")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
