package cart

import (
	"math"
	"time"
)

// CartLine is one book's quantity and price snapshot within a user's
// active cart. Price and discount are frozen at add-time so the buyer
// keeps the deal they saw.
type CartLine struct {
	UserID        uint      `json:"user_id"`
	BookID        uint      `json:"book_id"`
	Title         string    `json:"title"`
	Authors       []string  `json:"authors"`
	Thumbnail     string    `json:"thumbnail"`
	OriginalPrice float64   `json:"original_price"`
	DiscountPct   int       `json:"discount_pct"`
	Quantity      int       `json:"quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SalePrice is the effective unit price after discount, rounded to
// 2 decimals.
func (l CartLine) SalePrice() float64 {
	price := l.OriginalPrice * (1 - float64(l.DiscountPct)/100)
	return math.Round(price*100) / 100
}

// Subtotal is SalePrice times quantity.
func (l CartLine) Subtotal() float64 {
	return math.Round(l.SalePrice()*float64(l.Quantity)*100) / 100
}
