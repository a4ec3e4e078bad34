package domain

import "time"

// Product represents a catalog product as stored in the products table.
type Product struct {
	ID               string            `json:"id"`
	CategoryID       string            `json:"category_id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug"`
	Description      string            `json:"description,omitempty"`
	Price            int64             `json:"price"`
	PromotionalPrice *int64            `json:"promotional_price,omitempty"`
	Images           []string          `json:"images"`
	StockQuantity    int               `json:"stock_quantity"`
	IsActive         bool              `json:"is_active"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ProductVariant represents a sellable variation of a product
// (e.g. size or color), with its own stock count.
type ProductVariant struct {
	ID            string            `json:"id"`
	ProductID     string            `json:"product_id"`
	Name          string            `json:"name"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	StockQuantity int               `json:"stock_quantity"`
}

// Category groups products for storefront navigation.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// EffectivePrice returns the price a customer pays right now.
// The promotional price always wins when present, regardless of its
// relation to the regular price.
func (p *Product) EffectivePrice() int64 {
	if p.PromotionalPrice != nil {
		return *p.PromotionalPrice
	}
	return p.Price
}

// InStock reports whether at least one unit is available.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// LowStock reports whether the stock has fallen to or below the given
// threshold, used for "last units" storefront badges.
func (p *Product) LowStock(threshold int) bool {
	return p.StockQuantity > 0 && p.StockQuantity <= threshold
}
