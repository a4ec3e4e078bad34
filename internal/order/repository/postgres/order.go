package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/thiago536/v0-gabycommerce-structure/internal/order/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/order/repository"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/database"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, order_number, user_id, session_id, status, customer,
	subtotal, discount_amount, coupon_code, shipping_fee, total, currency,
	whatsapp_sent, created_at, updated_at`

// Create inserts the order and its items atomically within a transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	customerJSON, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer info: %w", err)
	}

	orderQuery := `
		INSERT INTO orders (id, order_number, user_id, session_id, status, customer, subtotal, discount_amount, coupon_code, shipping_fee, total, currency, whatsapp_sent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = tx.Exec(ctx, orderQuery,
		o.ID,
		o.OrderNumber,
		nullableID(o.UserID),
		o.SessionID,
		o.Status,
		customerJSON,
		o.Subtotal,
		o.DiscountAmount,
		o.CouponCode,
		o.ShippingFee,
		o.Total,
		o.Currency,
		o.WhatsAppSent,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, variant_id, product_name, product_images, variant_name, variant_attributes, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for _, item := range o.Items {
		imagesJSON, err := json.Marshal(item.ProductImages)
		if err != nil {
			return fmt.Errorf("marshal product images: %w", err)
		}
		var attributesJSON []byte
		if item.VariantAttributes != nil {
			attributesJSON, err = json.Marshal(item.VariantAttributes)
			if err != nil {
				return fmt.Errorf("marshal variant attributes: %w", err)
			}
		}
		_, err = tx.Exec(ctx, itemQuery,
			item.ID,
			item.OrderID,
			item.ProductID,
			nullableID(item.VariantID),
			item.ProductName,
			imagesJSON,
			item.VariantName,
			attributesJSON,
			item.Price,
			item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order by its ID, eagerly loading its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getOne(ctx, "id", id)
}

// GetByNumber retrieves an order by its order number.
func (r *OrderRepository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.getOne(ctx, "order_number", number)
}

func (r *OrderRepository) getOne(ctx context.Context, column, value string) (*domain.Order, error) {
	// Fetch order and items in a single query with LEFT JOIN + JSONB_AGG to
	// avoid a second round-trip for the items.
	query := fmt.Sprintf(`
		SELECT
			o.id, o.order_number, o.user_id, o.session_id, o.status, o.customer,
			o.subtotal, o.discount_amount, o.coupon_code, o.shipping_fee, o.total,
			o.currency, o.whatsapp_sent, o.created_at, o.updated_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'id', oi.id,
						'order_id', oi.order_id,
						'product_id', oi.product_id,
						'variant_id', oi.variant_id,
						'product_name', oi.product_name,
						'product_images', oi.product_images,
						'variant_name', oi.variant_name,
						'variant_attributes', oi.variant_attributes,
						'price', oi.price,
						'quantity', oi.quantity
					) ORDER BY oi.id
				) FILTER (WHERE oi.id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.%s = $1
		GROUP BY o.id`, column)

	var (
		o            domain.Order
		userID       *string
		couponCode   *string
		customerJSON []byte
		itemsJSON    []byte
	)

	err := r.pool.QueryRow(ctx, query, value).Scan(
		&o.ID,
		&o.OrderNumber,
		&userID,
		&o.SessionID,
		&o.Status,
		&customerJSON,
		&o.Subtotal,
		&o.DiscountAmount,
		&couponCode,
		&o.ShippingFee,
		&o.Total,
		&o.Currency,
		&o.WhatsAppSent,
		&o.CreatedAt,
		&o.UpdatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", value)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	if userID != nil {
		o.UserID = *userID
	}
	if couponCode != nil {
		o.CouponCode = *couponCode
	}
	if len(customerJSON) > 0 {
		if err := json.Unmarshal(customerJSON, &o.Customer); err != nil {
			return nil, fmt.Errorf("unmarshal customer info: %w", err)
		}
	}
	if len(itemsJSON) > 0 && string(itemsJSON) != "null" {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	if o.Items == nil {
		o.Items = []domain.OrderItem{}
	}

	return &o, nil
}

// List returns orders matching the filter with the total count. Items are
// not loaded; the back-office list view only needs the order headers.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", argIndex))
		args = append(args, *filter.UserID)
		argIndex++
	}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, *filter.Status)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// count(*) OVER() gives the total in the same query.
	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER() AS total_count
		FROM orders
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		orderColumns, whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var (
			o            domain.Order
			userID       *string
			couponCode   *string
			customerJSON []byte
		)

		if err := rows.Scan(
			&o.ID,
			&o.OrderNumber,
			&userID,
			&o.SessionID,
			&o.Status,
			&customerJSON,
			&o.Subtotal,
			&o.DiscountAmount,
			&couponCode,
			&o.ShippingFee,
			&o.Total,
			&o.Currency,
			&o.WhatsAppSent,
			&o.CreatedAt,
			&o.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}

		if userID != nil {
			o.UserID = *userID
		}
		if couponCode != nil {
			o.CouponCode = *couponCode
		}
		if len(customerJSON) > 0 {
			if err := json.Unmarshal(customerJSON, &o.Customer); err != nil {
				return nil, 0, fmt.Errorf("unmarshal customer info: %w", err)
			}
		}

		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	return orders, totalCount, nil
}

// UpdateStatus changes the status of an order.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// MarkWhatsAppSent records that the hand-off message was opened.
func (r *OrderRepository) MarkWhatsAppSent(ctx context.Context, id string) error {
	query := `
		UPDATE orders
		SET whatsapp_sent = TRUE, updated_at = $1
		WHERE id = $2`

	ct, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("mark whatsapp sent: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("order", id)
	}

	return nil
}

// nullableID maps an empty ID to SQL NULL.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
