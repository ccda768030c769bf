package catalog

import "time"

type Book struct {
	ID            uint      `json:"id"`
	ExternalID    string    `json:"external_id"`
	Title         string    `json:"title"`
	Authors       []string  `json:"authors"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Thumbnail     string    `json:"thumbnail"`
	OriginalPrice float64   `json:"original_price"`
	DiscountPct   int       `json:"discount_pct"`
	Rating        float64   `json:"rating"`
	RatingCount   int       `json:"rating_count"`
	TotalSold     int       `json:"total_sold"`
	CreatedAt     time.Time `json:"created_at"`
}
