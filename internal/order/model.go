package order

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type DeliveryStatus string

const (
	DeliveryPlaced         DeliveryStatus = "Order Placed"
	DeliveryProcessing     DeliveryStatus = "Processing"
	DeliveryShipped        DeliveryStatus = "Shipped"
	DeliveryOutForDelivery DeliveryStatus = "Out for Delivery"
	DeliveryDelivered      DeliveryStatus = "Delivered"
	DeliveryCancelled      DeliveryStatus = "Cancelled"
)

// deliveryRank orders the linear fulfillment stages. Cancelled sits
// outside the line and is handled separately.
var deliveryRank = map[DeliveryStatus]int{
	DeliveryPlaced:         0,
	DeliveryProcessing:     1,
	DeliveryShipped:        2,
	DeliveryOutForDelivery: 3,
	DeliveryDelivered:      4,
}

// ValidDeliveryStatus reports whether s names a known fulfillment stage.
func ValidDeliveryStatus(s DeliveryStatus) bool {
	if s == DeliveryCancelled {
		return true
	}
	_, ok := deliveryRank[s]
	return ok
}

// CanTransition reports whether delivery status may move from current
// to target: forward along the line, or to Cancelled from any
// non-terminal state. Delivered and Cancelled are terminal.
func CanTransition(current, target DeliveryStatus) bool {
	if current == DeliveryCancelled || current == DeliveryDelivered {
		return false
	}
	if target == DeliveryCancelled {
		return true
	}
	cr, ok := deliveryRank[current]
	if !ok {
		return false
	}
	tr, ok := deliveryRank[target]
	if !ok {
		return false
	}
	return tr > cr
}

type Order struct {
	ID                    uint           `json:"id"`
	UserID                uint           `json:"user_id"`
	PaymentID             uint           `json:"payment_id"`
	PaymentStatus         PaymentStatus  `json:"payment_status"`
	DeliveryStatus        DeliveryStatus `json:"delivery_status"`
	ShippingAddress       string         `json:"shipping_address"`
	TrackingNumber        *string        `json:"tracking_number,omitempty"`
	CreatedAt             time.Time      `json:"created_at"`
	EstimatedDeliveryDate time.Time      `json:"estimated_delivery_date"`
	DeliveredDate         *time.Time     `json:"delivered_date,omitempty"`
	IsReviewed            bool           `json:"is_reviewed"`
	Items                 []OrderItem    `json:"items,omitempty"`
}

// OrderItem is the immutable purchased-line record created once
// payment is verified.
type OrderItem struct {
	ID          uint    `json:"id"`
	OrderID     uint    `json:"order_id"`
	BookID      uint    `json:"book_id"`
	Title       string  `json:"title"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
}

// Stats are the admin dashboard aggregates.
type Stats struct {
	TotalOrders       int     `json:"total_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	Revenue           float64 `json:"revenue"`
	PendingDeliveries int     `json:"pending_deliveries"`
}
