package domain

import "time"

// ProductSnapshot is the denormalized product data stored with a favorite,
// captured at the moment the product was favorited so the list renders
// without a catalog round-trip.
type ProductSnapshot struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Slug             string   `json:"slug"`
	Price            int64    `json:"price"`
	PromotionalPrice *int64   `json:"promotional_price,omitempty"`
	Images           []string `json:"images"`
	StockQuantity    int      `json:"stock_quantity"`
}

// Entry is a single favorited product.
type Entry struct {
	ProductID string          `json:"product_id"`
	Product   ProductSnapshot `json:"product"`
	AddedAt   time.Time       `json:"added_at"`
}

// Favorites is the per-session favorites list. Membership is keyed by
// product ID only; favoriting the same product twice is a no-op.
type Favorites struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	Items     []Entry   `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contains reports whether the product is in the favorites list.
func (f *Favorites) Contains(productID string) bool {
	return f.indexOf(productID) >= 0
}

// Remove deletes the entry for the product if present and reports whether
// anything was removed.
func (f *Favorites) Remove(productID string) bool {
	i := f.indexOf(productID)
	if i < 0 {
		return false
	}
	f.Items = append(f.Items[:i], f.Items[i+1:]...)
	return true
}

func (f *Favorites) indexOf(productID string) int {
	for i := range f.Items {
		if f.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
