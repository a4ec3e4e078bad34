package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/thiago536/v0-gabycommerce-structure/internal/catalog/domain"
	"github.com/thiago536/v0-gabycommerce-structure/internal/catalog/repository"
	apperrors "github.com/thiago536/v0-gabycommerce-structure/pkg/errors"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/pagination"
	"github.com/thiago536/v0-gabycommerce-structure/pkg/slug"
)

// LowStockThreshold is the stock count at or below which the storefront
// shows the "últimas unidades" badge.
const LowStockThreshold = 5

// CatalogService implements the business logic for catalog operations.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logger     *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(products repository.ProductRepository, categories repository.CategoryRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

// ProductDetail bundles a product with its variants for the product page.
type ProductDetail struct {
	Product  *domain.Product          `json:"product"`
	Variants []*domain.ProductVariant `json:"variants"`
	LowStock bool                     `json:"low_stock"`
}

// GetProduct retrieves a product by ID.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	return s.products.GetByID(ctx, id)
}

// GetVariant retrieves a product variant by ID.
func (s *CatalogService) GetVariant(ctx context.Context, id string) (*domain.ProductVariant, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}
	return s.products.GetVariant(ctx, id)
}

// GetProductBySlug retrieves a product with its variants for the product page.
func (s *CatalogService) GetProductBySlug(ctx context.Context, productSlug string) (*ProductDetail, error) {
	if productSlug == "" {
		return nil, apperrors.InvalidInput("product slug is required")
	}

	p, err := s.products.GetBySlug(ctx, productSlug)
	if err != nil {
		return nil, err
	}

	variants, err := s.products.ListVariants(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("list variants for product %s: %w", p.ID, err)
	}

	return &ProductDetail{
		Product:  p,
		Variants: variants,
		LowStock: p.LowStock(LowStockThreshold),
	}, nil
}

// ListProducts returns a paginated product listing, optionally filtered by category.
// Storefront callers set activeOnly; the admin table lists everything.
func (s *CatalogService) ListProducts(ctx context.Context, categoryID string, activeOnly bool, params pagination.Params) (pagination.Result[*domain.Product], error) {
	filter := repository.ProductFilter{CategoryID: categoryID, ActiveOnly: activeOnly}

	products, total, err := s.products.List(ctx, filter, params.PerPage, params.Offset)
	if err != nil {
		return pagination.Result[*domain.Product]{}, fmt.Errorf("list products: %w", err)
	}

	return pagination.NewResult(products, total, params), nil
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

// GetCategoryBySlug retrieves a category by its URL slug.
func (s *CatalogService) GetCategoryBySlug(ctx context.Context, categorySlug string) (*domain.Category, error) {
	if categorySlug == "" {
		return nil, apperrors.InvalidInput("category slug is required")
	}
	return s.categories.GetBySlug(ctx, categorySlug)
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	CategoryID       string   `json:"category_id" validate:"required,uuid"`
	Name             string   `json:"name" validate:"required,min=1,max=500"`
	Description      string   `json:"description"`
	Price            int64    `json:"price" validate:"required,gt=0"`
	PromotionalPrice *int64   `json:"promotional_price" validate:"omitempty,gt=0"`
	Images           []string `json:"images"`
	StockQuantity    int      `json:"stock_quantity" validate:"gte=0"`
	IsActive         bool     `json:"is_active"`
}

// CreateProduct inserts a new product with a generated ID and slug.
func (s *CatalogService) CreateProduct(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.InvalidInput("price must be greater than 0")
	}
	if input.PromotionalPrice != nil && *input.PromotionalPrice <= 0 {
		return nil, apperrors.InvalidInput("promotional price must be greater than 0")
	}
	if input.StockQuantity < 0 {
		return nil, apperrors.InvalidInput("stock quantity must not be negative")
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:               uuid.New().String(),
		CategoryID:       input.CategoryID,
		Name:             input.Name,
		Slug:             slug.Generate(input.Name),
		Description:      input.Description,
		Price:            input.Price,
		PromotionalPrice: input.PromotionalPrice,
		Images:           input.Images,
		StockQuantity:    input.StockQuantity,
		IsActive:         input.IsActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if p.Images == nil {
		p.Images = []string{}
	}

	if err := s.products.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", p.ID),
		slog.String("slug", p.Slug),
	)

	return p, nil
}

// UpdateProductInput holds the parameters for updating a product.
// Nil pointer fields are left unchanged.
type UpdateProductInput struct {
	CategoryID       *string  `json:"category_id" validate:"omitempty,uuid"`
	Name             *string  `json:"name" validate:"omitempty,min=1,max=500"`
	Description      *string  `json:"description"`
	Price            *int64   `json:"price" validate:"omitempty,gt=0"`
	PromotionalPrice *int64   `json:"promotional_price"`
	ClearPromotion   bool     `json:"clear_promotion"`
	Images           []string `json:"images"`
	StockQuantity    *int     `json:"stock_quantity" validate:"omitempty,gte=0"`
	IsActive         *bool    `json:"is_active"`
}

// UpdateProduct applies a partial update to an existing product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil {
		p.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		p.Name = *input.Name
		p.Slug = slug.Generate(*input.Name)
	}
	if input.Description != nil {
		p.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, apperrors.InvalidInput("price must be greater than 0")
		}
		p.Price = *input.Price
	}
	if input.ClearPromotion {
		p.PromotionalPrice = nil
	} else if input.PromotionalPrice != nil {
		if *input.PromotionalPrice <= 0 {
			return nil, apperrors.InvalidInput("promotional price must be greater than 0")
		}
		p.PromotionalPrice = input.PromotionalPrice
	}
	if input.Images != nil {
		p.Images = input.Images
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, apperrors.InvalidInput("stock quantity must not be negative")
		}
		p.StockQuantity = *input.StockQuantity
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", p.ID),
	)

	return p, nil
}

// DeleteProduct removes a product from the catalog.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("product id is required")
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}
