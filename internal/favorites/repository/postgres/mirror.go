package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thiago536/v0-gabycommerce-structure/internal/favorites/domain"
)

// FavoritesMirror implements repository.Mirror against the favorites table.
// Rows are keyed by (user_id, product_id) with a unique constraint, so
// inserts use ON CONFLICT DO NOTHING to stay idempotent.
type FavoritesMirror struct {
	pool *pgxpool.Pool
}

// NewFavoritesMirror creates a new PostgreSQL-backed favorites mirror.
func NewFavoritesMirror(pool *pgxpool.Pool) *FavoritesMirror {
	return &FavoritesMirror{pool: pool}
}

// Insert adds a favorites row for the user. Adding an existing pair is a no-op.
func (m *FavoritesMirror) Insert(ctx context.Context, userID, productID string) error {
	query := `
		INSERT INTO favorites (user_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING`

	if _, err := m.pool.Exec(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}

	return nil
}

// Delete removes the matching row.
func (m *FavoritesMirror) Delete(ctx context.Context, userID, productID string) error {
	query := `
		DELETE FROM favorites
		WHERE user_id = $1 AND product_id = $2`

	if _, err := m.pool.Exec(ctx, query, userID, productID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}

	return nil
}

// LoadForUser returns the user's rows joined with product snapshots.
func (m *FavoritesMirror) LoadForUser(ctx context.Context, userID string) ([]domain.Entry, error) {
	query := `
		SELECT
			f.product_id, f.created_at,
			p.name, p.slug, p.price, p.promotional_price, p.images, p.stock_quantity
		FROM favorites f
		JOIN products p ON p.id = f.product_id
		WHERE f.user_id = $1
		ORDER BY f.created_at`

	rows, err := m.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	defer rows.Close()

	entries := []domain.Entry{}
	for rows.Next() {
		var (
			entry      domain.Entry
			imagesJSON []byte
		)

		err := rows.Scan(
			&entry.ProductID,
			&entry.AddedAt,
			&entry.Product.Name,
			&entry.Product.Slug,
			&entry.Product.Price,
			&entry.Product.PromotionalPrice,
			&imagesJSON,
			&entry.Product.StockQuantity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}

		entry.Product.ID = entry.ProductID
		if len(imagesJSON) > 0 {
			if err := json.Unmarshal(imagesJSON, &entry.Product.Images); err != nil {
				return nil, fmt.Errorf("unmarshal product images: %w", err)
			}
		}
		if entry.Product.Images == nil {
			entry.Product.Images = []string{}
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite rows: %w", err)
	}

	return entries, nil
}
