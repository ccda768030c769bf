package order

import (
	"context"
	"errors"
	"testing"

	"nextchapter-be/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRepository) CreatePendingTx(ctx context.Context, pp *payment.PendingPayment, o *Order) error {
	args := m.Called(ctx, pp, o)
	return args.Error(0)
}

func (m *MockRepository) CompletePaymentTx(ctx context.Context, userID uint, gatewayOrderID, gatewayPaymentID string) (uint, error) {
	args := m.Called(ctx, userID, gatewayOrderID, gatewayPaymentID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uint, limit, page int) ([]Order, error) {
	args := m.Called(ctx, userID, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context, status DeliveryStatus, limit, page int) ([]Order, error) {
	args := m.Called(ctx, status, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Order), args.Error(1)
}

func (m *MockRepository) UpdateDeliveryStatusTx(ctx context.Context, orderID uint, target DeliveryStatus, trackingNumber *string) (*Order, error) {
	args := m.Called(ctx, orderID, target, trackingNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Order), args.Error(1)
}

func (m *MockRepository) Stats(ctx context.Context) (*Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

// MockGateway is a mock implementation of the payment.Gateway interface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*payment.GatewayOrder, error) {
	args := m.Called(ctx, amountMinor, currency, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.GatewayOrder), args.Error(1)
}

func (m *MockGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) error {
	args := m.Called(gatewayOrderID, gatewayPaymentID, signature)
	return args.Error(0)
}

func TestService_Checkout(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		gw := new(MockGateway)
		svc := NewService(repo, gw, "rzp_test_key")

		repo.On("EnsureSchema", mock.Anything).Return(nil)
		gw.On("CreateOrder", mock.Anything, int64(45000), "INR", mock.AnythingOfType("string")).
			Return(&payment.GatewayOrder{ID: "order_abc", Amount: 45000, Currency: "INR"}, nil)
		repo.On("CreatePendingTx", mock.Anything,
			mock.AnythingOfType("*payment.PendingPayment"),
			mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*payment.PendingPayment).ID = 11
				args.Get(2).(*Order).ID = 5
			}).
			Return(nil)

		res, err := svc.Checkout(context.Background(), 1, 450.0, "221B Baker Street")
		assert.NoError(t, err)
		require.NotNil(t, res)
		assert.Equal(t, uint(5), res.OrderID)
		assert.Equal(t, "order_abc", res.GatewayOrderID)
		assert.Equal(t, "INR", res.Currency)
		assert.Equal(t, "rzp_test_key", res.KeyID)
		repo.AssertExpectations(t)
		gw.AssertExpectations(t)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		repo := new(MockRepository)
		gw := new(MockGateway)
		svc := NewService(repo, gw, "rzp_test_key")

		_, err := svc.Checkout(context.Background(), 1, 0, "221B Baker Street")
		assert.ErrorIs(t, err, ErrInvalidAmount)
		gw.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("EmptyAddress", func(t *testing.T) {
		repo := new(MockRepository)
		gw := new(MockGateway)
		svc := NewService(repo, gw, "rzp_test_key")

		_, err := svc.Checkout(context.Background(), 1, 450.0, "   ")
		assert.ErrorIs(t, err, ErrEmptyAddress)
		gw.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("SchemaMissing", func(t *testing.T) {
		repo := new(MockRepository)
		gw := new(MockGateway)
		svc := NewService(repo, gw, "rzp_test_key")

		repo.On("EnsureSchema", mock.Anything).Return(ErrSchemaMissing)

		_, err := svc.Checkout(context.Background(), 1, 450.0, "221B Baker Street")
		assert.ErrorIs(t, err, ErrSchemaMissing)
		gw.AssertNotCalled(t, "CreateOrder")
	})

	t.Run("GatewayUnavailable", func(t *testing.T) {
		repo := new(MockRepository)
		gw := new(MockGateway)
		svc := NewService(repo, gw, "rzp_test_key")

		repo.On("EnsureSchema", mock.Anything).Return(nil)
		gw.On("CreateOrder", mock.Anything, int64(45000), "INR", mock.AnythingOfType("string")).
			Return(nil, payment.ErrGatewayUnavailable)

		_, err := svc.Checkout(context.Background(), 1, 450.0, "221B Baker Street")
		assert.ErrorIs(t, err, payment.ErrGatewayUnavailable)
		repo.AssertNotCalled(t, "CreatePendingTx")
	})
}

func TestService_VerifyPayment(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		gw := new(MockGateway)
		svc := NewService(repo, gw, "rzp_test_key")

		gw.On("VerifySignature", "order_abc", "pay_xyz", "sig").Return(nil)
		repo.On("CompletePaymentTx", mock.Anything, uint(1), "order_abc", "pay_xyz").
			Return(uint(5), nil)

		orderID, err := svc.VerifyPayment(context.Background(), 1, "order_abc", "pay_xyz", "sig")
		assert.NoError(t, err)
		assert.Equal(t, uint(5), orderID)
		repo.AssertExpectations(t)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		repo := new(MockRepository)
		gw := new(MockGateway)
		svc := NewService(repo, gw, "rzp_test_key")

		gw.On("VerifySignature", "order_abc", "pay_xyz", "forged").
			Return(payment.ErrInvalidSignature)

		_, err := svc.VerifyPayment(context.Background(), 1, "order_abc", "pay_xyz", "forged")
		assert.ErrorIs(t, err, payment.ErrInvalidSignature)
		repo.AssertNotCalled(t, "CompletePaymentTx")
	})

	t.Run("AlreadyProcessed", func(t *testing.T) {
		repo := new(MockRepository)
		gw := new(MockGateway)
		svc := NewService(repo, gw, "rzp_test_key")

		gw.On("VerifySignature", "order_abc", "pay_xyz", "sig").Return(nil)
		repo.On("CompletePaymentTx", mock.Anything, uint(1), "order_abc", "pay_xyz").
			Return(uint(0), payment.ErrAlreadyProcessed)

		_, err := svc.VerifyPayment(context.Background(), 1, "order_abc", "pay_xyz", "sig")
		assert.ErrorIs(t, err, payment.ErrAlreadyProcessed)
	})
}

func TestService_GetOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockGateway), "k")

		repo.On("GetByID", mock.Anything, uint(5)).
			Return(&Order{ID: 5, UserID: 1}, nil)

		o, err := svc.GetOrder(context.Background(), 1, 5)
		assert.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, uint(5), o.ID)
	})

	t.Run("OtherUsersOrder", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockGateway), "k")

		repo.On("GetByID", mock.Anything, uint(5)).
			Return(&Order{ID: 5, UserID: 2}, nil)

		_, err := svc.GetOrder(context.Background(), 1, 5)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockGateway), "k")

		repo.On("GetByID", mock.Anything, uint(99)).
			Return(nil, ErrOrderNotFound)

		_, err := svc.GetOrder(context.Background(), 1, 99)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestService_ListAll(t *testing.T) {
	t.Run("StatusFilter", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockGateway), "k")

		repo.On("ListAll", mock.Anything, DeliveryShipped, 20, 1).
			Return([]Order{{ID: 5}}, nil)

		orders, err := svc.ListAll(context.Background(), "Shipped", 0, 0)
		assert.NoError(t, err)
		assert.Len(t, orders, 1)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockGateway), "k")

		_, err := svc.ListAll(context.Background(), "Teleported", 20, 1)
		assert.ErrorIs(t, err, ErrUnknownStatus)
		repo.AssertNotCalled(t, "ListAll")
	})
}

func TestService_UpdateDeliveryStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockGateway), "k")

		repo.On("UpdateDeliveryStatusTx", mock.Anything, uint(5), DeliveryShipped, (*string)(nil)).
			Return(&Order{ID: 5, DeliveryStatus: DeliveryShipped}, nil)

		o, err := svc.UpdateDeliveryStatus(context.Background(), 5, "Shipped", nil)
		assert.NoError(t, err)
		require.NotNil(t, o)
		assert.Equal(t, DeliveryShipped, o.DeliveryStatus)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockGateway), "k")

		_, err := svc.UpdateDeliveryStatus(context.Background(), 5, "Lost", nil)
		assert.ErrorIs(t, err, ErrUnknownStatus)
		repo.AssertNotCalled(t, "UpdateDeliveryStatusTx")
	})

	t.Run("RepoError", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo, new(MockGateway), "k")

		repo.On("UpdateDeliveryStatusTx", mock.Anything, uint(5), DeliveryCancelled, (*string)(nil)).
			Return(nil, errors.New("db down"))

		_, err := svc.UpdateDeliveryStatus(context.Background(), 5, "Cancelled", nil)
		assert.Error(t, err)
	})
}
