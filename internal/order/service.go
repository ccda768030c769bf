package order

import (
	"context"
	"math"
	"strings"

	"nextchapter-be/internal/logger"
	"nextchapter-be/internal/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutResult carries what the client needs to open the payment
// gateway widget.
type CheckoutResult struct {
	OrderID        uint    `json:"orderId"`
	GatewayOrderID string  `json:"gatewayOrderId"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	KeyID          string  `json:"keyId"`
}

type Service interface {
	Checkout(ctx context.Context, userID uint, amount float64, shippingAddress string) (*CheckoutResult, error)
	VerifyPayment(ctx context.Context, userID uint, gatewayOrderID, gatewayPaymentID, signature string) (uint, error)
	GetOrders(ctx context.Context, userID uint, limit, page int) ([]Order, error)
	GetOrder(ctx context.Context, userID, orderID uint) (*Order, error)
	ListAll(ctx context.Context, status string, limit, page int) ([]Order, error)
	UpdateDeliveryStatus(ctx context.Context, orderID uint, status string, trackingNumber *string) (*Order, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo    Repository
	gateway payment.Gateway
	keyID   string
}

func NewService(repo Repository, gateway payment.Gateway, keyID string) Service {
	return &service{repo: repo, gateway: gateway, keyID: keyID}
}

const checkoutCurrency = "INR"

func (s *service) Checkout(ctx context.Context, userID uint, amount float64, shippingAddress string) (*CheckoutResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
		zap.Uint("user_id", userID),
	)

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, ErrEmptyAddress
	}

	if err := s.repo.EnsureSchema(ctx); err != nil {
		log.Error("schema check failed", zap.Error(err))
		return nil, err
	}

	amountMinor := int64(math.Round(amount * 100))
	receipt := "rcpt_" + uuid.NewString()

	gw, err := s.gateway.CreateOrder(ctx, amountMinor, checkoutCurrency, receipt)
	if err != nil {
		log.Error("gateway order creation failed", zap.Error(err))
		return nil, err
	}

	pp := &payment.PendingPayment{
		UserID:         userID,
		GatewayOrderID: gw.ID,
		Amount:         amount,
	}
	o := &Order{
		UserID:          userID,
		ShippingAddress: strings.TrimSpace(shippingAddress),
	}
	if err := s.repo.CreatePendingTx(ctx, pp, o); err != nil {
		return nil, err
	}

	log.Info("checkout started",
		zap.Uint("order_id", o.ID),
		zap.String("gateway_order_id", gw.ID),
	)

	return &CheckoutResult{
		OrderID:        o.ID,
		GatewayOrderID: gw.ID,
		Amount:         amount,
		Currency:       checkoutCurrency,
		KeyID:          s.keyID,
	}, nil
}

func (s *service) VerifyPayment(ctx context.Context, userID uint, gatewayOrderID, gatewayPaymentID, signature string) (uint, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "VerifyPayment"),
		zap.Uint("user_id", userID),
		zap.String("gateway_order_id", gatewayOrderID),
	)

	// Signature first: a forged confirmation must not touch state.
	if err := s.gateway.VerifySignature(gatewayOrderID, gatewayPaymentID, signature); err != nil {
		log.Warn("payment signature rejected")
		return 0, err
	}

	orderID, err := s.repo.CompletePaymentTx(ctx, userID, gatewayOrderID, gatewayPaymentID)
	if err != nil {
		return 0, err
	}

	log.Info("payment verified", zap.Uint("order_id", orderID))
	return orderID, nil
}

func (s *service) GetOrders(ctx context.Context, userID uint, limit, page int) ([]Order, error) {
	limit, page = clampPaging(limit, page)
	return s.repo.ListByUser(ctx, userID, limit, page)
}

func (s *service) GetOrder(ctx context.Context, userID, orderID uint) (*Order, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// Ownership failures look identical to missing orders.
	if o.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) ListAll(ctx context.Context, status string, limit, page int) ([]Order, error) {
	limit, page = clampPaging(limit, page)

	filter := DeliveryStatus(status)
	if filter != "" && !ValidDeliveryStatus(filter) {
		return nil, ErrUnknownStatus
	}
	return s.repo.ListAll(ctx, filter, limit, page)
}

func (s *service) UpdateDeliveryStatus(ctx context.Context, orderID uint, status string, trackingNumber *string) (*Order, error) {
	target := DeliveryStatus(status)
	if !ValidDeliveryStatus(target) {
		return nil, ErrUnknownStatus
	}
	return s.repo.UpdateDeliveryStatusTx(ctx, orderID, target, trackingNumber)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

func clampPaging(limit, page int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return limit, page
}
