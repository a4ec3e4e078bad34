package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewLineID(t *testing.T) {
	now := time.UnixMilli(1700000000000).UTC()

	assert.Equal(t, "prod-1-var-1-1700000000000", NewLineID("prod-1", "var-1", now))
	// Variant-less lines use the "default" placeholder.
	assert.Equal(t, "prod-1-default-1700000000000", NewLineID("prod-1", "", now))
}

func TestFindLine(t *testing.T) {
	cart := &Cart{
		Items: []Line{
			{ID: "a", ProductID: "prod-1", VariantID: "var-1"},
			{ID: "b", ProductID: "prod-1", VariantID: ""},
			{ID: "c", ProductID: "prod-2", VariantID: "var-1"},
		},
	}

	assert.Equal(t, 0, cart.FindLine("prod-1", "var-1"))
	assert.Equal(t, 1, cart.FindLine("prod-1", ""))
	assert.Equal(t, 2, cart.FindLine("prod-2", "var-1"))
	assert.Equal(t, -1, cart.FindLine("prod-2", ""))
}

func TestFindLineByID(t *testing.T) {
	cart := &Cart{
		Items: []Line{{ID: "a"}, {ID: "b"}},
	}

	assert.Equal(t, 1, cart.FindLineByID("b"))
	assert.Equal(t, -1, cart.FindLineByID("z"))
}

func TestTotalPrice_PromotionalPriceWins(t *testing.T) {
	promo := int64(13000)
	cart := &Cart{
		Items: []Line{
			// R$150,00 regular with a R$130,00 promotional price, quantity 1.
			{Quantity: 1, Product: ProductSnapshot{Price: 15000, PromotionalPrice: &promo}},
		},
	}

	assert.Equal(t, int64(13000), cart.TotalPrice())
}

func TestTotalPrice_MixedLines(t *testing.T) {
	promo := int64(5000)
	cart := &Cart{
		Items: []Line{
			{Quantity: 2, Product: ProductSnapshot{Price: 8990}},
			{Quantity: 3, Product: ProductSnapshot{Price: 9990, PromotionalPrice: &promo}},
		},
	}

	assert.Equal(t, int64(2*8990+3*5000), cart.TotalPrice())
}

func TestLineTotal(t *testing.T) {
	line := Line{Quantity: 4, Product: ProductSnapshot{Price: 2500}}
	assert.Equal(t, int64(10000), line.LineTotal())
}

func TestTotalItems(t *testing.T) {
	cart := &Cart{Items: []Line{{Quantity: 1}, {Quantity: 4}}}
	assert.Equal(t, 5, cart.TotalItems())

	empty := &Cart{}
	assert.Equal(t, 0, empty.TotalItems())
}
