package repository

import (
	"context"

	"github.com/thiago536/v0-gabycommerce-structure/internal/catalog/domain"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID string
	ActiveOnly bool
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// GetByID retrieves a product by its ID.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySlug retrieves a product by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns a page of products matching the filter and the total count.
	List(ctx context.Context, filter ProductFilter, limit, offset int) ([]*domain.Product, int, error)

	// Create inserts a new product.
	Create(ctx context.Context, p *domain.Product) error

	// Update modifies an existing product.
	Update(ctx context.Context, p *domain.Product) error

	// Delete removes a product by ID.
	Delete(ctx context.Context, id string) error

	// GetVariant retrieves a single product variant by its ID.
	GetVariant(ctx context.Context, id string) (*domain.ProductVariant, error)

	// ListVariants returns all variants of a product.
	ListVariants(ctx context.Context, productID string) ([]*domain.ProductVariant, error)
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// List returns all categories ordered by name.
	List(ctx context.Context) ([]*domain.Category, error)

	// GetBySlug retrieves a category by its URL slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
}
