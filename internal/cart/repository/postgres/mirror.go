package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiago536/v0-gabycommerce-structure/internal/cart/domain"
)

// CartMirror implements repository.Mirror against the cart_items table.
//
// Rows are keyed by (user_id, product_id, product_variant_id). The variant
// column is NULL for variant-less lines, so all statements compare it with
// IS NOT DISTINCT FROM to match both cases.
type CartMirror struct {
	pool *pgxpool.Pool
}

// NewCartMirror creates a new PostgreSQL-backed cart mirror.
func NewCartMirror(pool *pgxpool.Pool) *CartMirror {
	return &CartMirror{pool: pool}
}

// nullableID maps an empty variant ID to SQL NULL.
func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}

// Insert adds a cart_items row for the user.
func (m *CartMirror) Insert(ctx context.Context, userID, productID, variantID string, quantity int) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, product_variant_id, quantity)
		VALUES ($1, $2, $3, $4)`

	if _, err := m.pool.Exec(ctx, query, userID, productID, nullableID(variantID), quantity); err != nil {
		return fmt.Errorf("insert cart item: %w", err)
	}

	return nil
}

// UpdateQuantity sets the quantity on the matching row.
func (m *CartMirror) UpdateQuantity(ctx context.Context, userID, productID, variantID string, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $4
		WHERE user_id = $1 AND product_id = $2 AND product_variant_id IS NOT DISTINCT FROM $3`

	if _, err := m.pool.Exec(ctx, query, userID, productID, nullableID(variantID), quantity); err != nil {
		return fmt.Errorf("update cart item quantity: %w", err)
	}

	return nil
}

// Delete removes the matching row.
func (m *CartMirror) Delete(ctx context.Context, userID, productID, variantID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2 AND product_variant_id IS NOT DISTINCT FROM $3`

	if _, err := m.pool.Exec(ctx, query, userID, productID, nullableID(variantID)); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	return nil
}

// LoadForUser returns the user's rows joined with product and variant
// snapshots. Line IDs are derived from the row creation time so reloads
// produce stable identifiers.
func (m *CartMirror) LoadForUser(ctx context.Context, userID string) ([]domain.Line, error) {
	query := `
		SELECT
			ci.product_id, ci.product_variant_id, ci.quantity, ci.created_at,
			p.name, p.slug, p.price, p.promotional_price, p.images, p.stock_quantity,
			pv.name, pv.attributes, pv.stock_quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		LEFT JOIN product_variants pv ON pv.id = ci.product_variant_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at`

	rows, err := m.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	lines := []domain.Line{}
	for rows.Next() {
		var (
			line         domain.Line
			variantID    *string
			createdAt    time.Time
			imagesJSON   []byte
			variantName  *string
			variantAttrs []byte
			variantStock *int
		)

		err := rows.Scan(
			&line.ProductID,
			&variantID,
			&line.Quantity,
			&createdAt,
			&line.Product.Name,
			&line.Product.Slug,
			&line.Product.Price,
			&line.Product.PromotionalPrice,
			&imagesJSON,
			&line.Product.StockQuantity,
			&variantName,
			&variantAttrs,
			&variantStock,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}

		line.Product.ID = line.ProductID
		if len(imagesJSON) > 0 {
			if err := json.Unmarshal(imagesJSON, &line.Product.Images); err != nil {
				return nil, fmt.Errorf("unmarshal product images: %w", err)
			}
		}
		if line.Product.Images == nil {
			line.Product.Images = []string{}
		}

		if variantID != nil {
			line.VariantID = *variantID
			v := &domain.VariantSnapshot{ID: *variantID}
			if variantName != nil {
				v.Name = *variantName
			}
			if variantStock != nil {
				v.StockQuantity = *variantStock
			}
			if len(variantAttrs) > 0 {
				if err := json.Unmarshal(variantAttrs, &v.Attributes); err != nil {
					return nil, fmt.Errorf("unmarshal variant attributes: %w", err)
				}
			}
			line.Variant = v
		}

		line.ID = domain.NewLineID(line.ProductID, line.VariantID, createdAt)
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart item rows: %w", err)
	}

	return lines, nil
}
