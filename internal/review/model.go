package review

import "time"

// Review is a verified-purchase rating for one book on one delivered
// order.
type Review struct {
	ID        uint      `json:"id"`
	OrderID   uint      `json:"order_id"`
	BookID    uint      `json:"book_id"`
	UserID    uint      `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
