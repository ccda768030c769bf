package payment

import "errors"

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrInvalidSignature   = errors.New("invalid payment signature")
	ErrAlreadyProcessed   = errors.New("payment already processed")
	ErrPaymentNotFound    = errors.New("payment not found")
)
