package payment

import "context"

// Gateway abstracts the external payment processor: creating a
// payment-intent at checkout and verifying its signed confirmation.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*GatewayOrder, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) error
}
