package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrEmptyAddress      = errors.New("shipping address is required")
	ErrSchemaMissing     = errors.New("required tables are missing")
	ErrUnknownStatus     = errors.New("unknown delivery status")
	ErrInvalidTransition = errors.New("invalid delivery status transition")
)
