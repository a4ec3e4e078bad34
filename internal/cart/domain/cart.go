package domain

import (
	"fmt"
	"time"
)

// ProductSnapshot is the denormalized product data carried by a cart line
// so the cart renders without re-fetching the catalog.
type ProductSnapshot struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Price            int64    `json:"price"`
	PromotionalPrice *int64   `json:"promotional_price,omitempty"`
	Images           []string `json:"images"`
	StockQuantity    int      `json:"stock_quantity"`
}

// EffectivePrice returns the unit price for cart math. The promotional
// price always wins when present.
func (p *ProductSnapshot) EffectivePrice() int64 {
	if p.PromotionalPrice != nil {
		return *p.PromotionalPrice
	}
	return p.Price
}

// VariantSnapshot is the denormalized variant data carried by a cart line.
type VariantSnapshot struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	StockQuantity int               `json:"stock_quantity"`
}

// Line is a single cart line: one (product, optional variant) pair with a
// quantity. At most one line exists per distinct pair within a cart.
type Line struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	VariantID string           `json:"variant_id,omitempty"`
	Quantity  int              `json:"quantity"`
	Product   ProductSnapshot  `json:"product"`
	Variant   *VariantSnapshot `json:"variant,omitempty"`
}

// LineTotal returns the effective price times quantity for this line.
func (l *Line) LineTotal() int64 {
	return l.Product.EffectivePrice() * int64(l.Quantity)
}

// Cart is the locally persisted shopping cart for one browser session.
// The user ID is set once the shopper authenticates; guest carts carry an
// empty user ID and never reach the remote mirror.
type Cart struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	Items     []Line    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLineID derives a line identifier from the product, variant, and
// creation time. Not guaranteed globally unique; uniqueness within one
// cart is enforced by the one-line-per-pair invariant.
func NewLineID(productID, variantID string, now time.Time) string {
	if variantID == "" {
		variantID = "default"
	}
	return fmt.Sprintf("%s-%s-%d", productID, variantID, now.UnixMilli())
}

// FindLine returns the index of the line matching the given product and
// variant IDs, or -1 if absent.
func (c *Cart) FindLine(productID, variantID string) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].VariantID == variantID {
			return i
		}
	}
	return -1
}

// FindLineByID returns the index of the line with the given line ID, or -1.
func (c *Cart) FindLineByID(lineID string) int {
	for i := range c.Items {
		if c.Items[i].ID == lineID {
			return i
		}
	}
	return -1
}

// TotalItems returns the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	var total int
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// TotalPrice returns the sum of effective price times quantity over all
// lines, in centavos.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].LineTotal()
	}
	return total
}
