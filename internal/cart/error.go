package cart

import "errors"

var (
	ErrInvalidQuantity = errors.New("invalid cart quantity")
	ErrLineNotFound    = errors.New("cart item not found")
	ErrBookNotFound    = errors.New("book not found")
)
