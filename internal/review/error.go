package review

import "errors"

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrOrderNotFound   = errors.New("order not found")
	ErrNotDeliverable  = errors.New("order has not been delivered")
	ErrItemNotFound    = errors.New("book is not part of this order")
	ErrDuplicateReview = errors.New("book already reviewed for this order")
)
