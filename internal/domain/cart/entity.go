// internal/domain/cart/entity.go
package cart

import (
	"math"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Line is one product in the cart. Display fields are copied from the
// product when it is first added; later catalog changes do not reach it.
type Line struct {
	ProductID catalog.ProductID `json:"id"`
	Title     string            `json:"title"`
	Category  string            `json:"category,omitempty"`
	Price     float64           `json:"price"`
	Thumbnail string            `json:"thumbnail,omitempty"`
	Quantity  int               `json:"quantity"`
}

// Subtotal is price × quantity
func (l Line) Subtotal() float64 {
	return FromCents(ToCents(l.Price) * int64(l.Quantity))
}

// Totals are derived on every read, never stored
type Totals struct {
	LineCount  int     `json:"line_count"` // Number of distinct products
	ItemCount  int     `json:"item_count"` // Sum of all quantities
	TotalPrice float64 `json:"total_price"`
}

// Cart is a read-only snapshot handed to views and to checkout
type Cart struct {
	Lines  []Line `json:"items"`
	Totals Totals `json:"totals"`
}

// EventType names a cart notification
type EventType string

const (
	EventAdded EventType = "added"
)

// Event is raised after a successful mutation, for display only
type Event struct {
	Type EventType `json:"type"`
	Line Line      `json:"line"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID catalog.ProductID `json:"product_id" binding:"required"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// ToCents converts a decimal price to integer cents. Sums are computed in
// cents so repeated float additions do not drift.
func ToCents(price float64) int64 {
	return int64(math.Round(price * 100))
}

// FromCents converts integer cents back to a decimal price
func FromCents(cents int64) float64 {
	return float64(cents) / 100
}

// ComputeTotals derives the totals of lines
func ComputeTotals(lines []Line) Totals {
	totals := Totals{
		LineCount:  len(lines),
		TotalPrice: FromCents(TotalCents(lines)),
	}
	for _, l := range lines {
		totals.ItemCount += l.Quantity
	}
	return totals
}

// TotalCents is the cart total in integer cents
func TotalCents(lines []Line) int64 {
	var cents int64
	for _, l := range lines {
		cents += ToCents(l.Price) * int64(l.Quantity)
	}
	return cents
}
