package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
	"github.com/thiago536/v0-gabycommerce-structure/internal/catalog/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/catalog/repository"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, category_id, name, slug, description, price, promotional_price, images, stock_quantity, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var imagesJSON []byte
	err := row.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.PromotionalPrice,
		&imagesJSON,
		&p.StockQuantity,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, fmt.Errorf("unmarshal product images: %w", err)
		}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return &p, nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// GetBySlug retrieves a product by its URL slug.
func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", slug)
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}

// List returns a page of products matching the filter and the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*domain.Product, int, error) {
	where := `WHERE ($1 = '' OR category_id = $1::uuid) AND (NOT $2::bool OR is_active)`

	var total int
	countQuery := `SELECT COUNT(*) FROM products ` + where
	if err := r.pool.QueryRow(ctx, countQuery, filter.CategoryID, filter.ActiveOnly).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products ` + where + `
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, filter.CategoryID, filter.ActiveOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, total, nil
}

// Create inserts a new product.
func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal product images: %w", err)
	}

	query := `
		INSERT INTO products (id, category_id, name, slug, description, price, promotional_price, images, stock_quantity, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.CategoryID,
		p.Name,
		p.Slug,
		p.Description,
		p.Price,
		p.PromotionalPrice,
		imagesJSON,
		p.StockQuantity,
		p.IsActive,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// Update modifies an existing product.
func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	imagesJSON, err := json.Marshal(p.Images)
	if err != nil {
		return fmt.Errorf("marshal product images: %w", err)
	}

	query := `
		UPDATE products
		SET category_id = $2, name = $3, slug = $4, description = $5, price = $6,
			promotional_price = $7, images = $8, stock_quantity = $9, is_active = $10, updated_at = $11
		WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query,
		p.ID,
		p.CategoryID,
		p.Name,
		p.Slug,
		p.Description,
		p.Price,
		p.PromotionalPrice,
		imagesJSON,
		p.StockQuantity,
		p.IsActive,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", p.ID)
	}

	return nil
}

// Delete removes a product by ID.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product", id)
	}
	return nil
}

// GetVariant retrieves a single product variant by its ID.
func (r *ProductRepository) GetVariant(ctx context.Context, id string) (*domain.ProductVariant, error) {
	query := `
		SELECT id, product_id, name, attributes, stock_quantity
		FROM product_variants
		WHERE id = $1`

	v, err := scanVariant(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product variant", id)
		}
		return nil, fmt.Errorf("get product variant: %w", err)
	}
	return v, nil
}

// ListVariants returns all variants of a product.
func (r *ProductRepository) ListVariants(ctx context.Context, productID string) ([]*domain.ProductVariant, error) {
	query := `
		SELECT id, product_id, name, attributes, stock_quantity
		FROM product_variants
		WHERE product_id = $1
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product variants: %w", err)
	}
	defer rows.Close()

	variants := []*domain.ProductVariant{}
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product variant: %w", err)
		}
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variant rows: %w", err)
	}

	return variants, nil
}

func scanVariant(row pgx.Row) (*domain.ProductVariant, error) {
	var v domain.ProductVariant
	var attrsJSON []byte
	if err := row.Scan(&v.ID, &v.ProductID, &v.Name, &attrsJSON, &v.StockQuantity); err != nil {
		return nil, err
	}
	if len(attrsJSON) > 0 {
		if err := json.Unmarshal(attrsJSON, &v.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshal variant attributes: %w", err)
		}
	}
	return &v, nil
}
