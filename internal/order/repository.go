package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nextchapter-be/internal/logger"
	"nextchapter-be/internal/payment"

	"go.uber.org/zap"
)

type Repository interface {
	EnsureSchema(ctx context.Context) error

	// CreatePendingTx persists the payment-intent and its pending
	// order in one transaction.
	CreatePendingTx(ctx context.Context, pp *payment.PendingPayment, o *Order) error

	// CompletePaymentTx converts the user's cart into order items
	// under the row lock that makes verification at-most-once.
	CompletePaymentTx(ctx context.Context, userID uint, gatewayOrderID, gatewayPaymentID string) (orderID uint, err error)

	GetByID(ctx context.Context, orderID uint) (*Order, error)
	ListByUser(ctx context.Context, userID uint, limit, page int) ([]Order, error)
	ListAll(ctx context.Context, status DeliveryStatus, limit, page int) ([]Order, error)
	UpdateDeliveryStatusTx(ctx context.Context, orderID uint, target DeliveryStatus, trackingNumber *string) (*Order, error)
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// EnsureSchema is a defensive pre-check that the checkout tables
// exist before any money-adjacent write.
func (r *repository) EnsureSchema(ctx context.Context) error {
	query := `
		SELECT to_regclass('public.payments'),
		       to_regclass('public.orders'),
		       to_regclass('public.order_items'),
		       to_regclass('public.cart')
	`

	var payments, orders, orderItems, cart sql.NullString
	err := r.db.QueryRowContext(ctx, query).
		Scan(&payments, &orders, &orderItems, &cart)
	if err != nil {
		return err
	}

	if !payments.Valid || !orders.Valid || !orderItems.Valid || !cart.Valid {
		return ErrSchemaMissing
	}
	return nil
}

func (r *repository) CreatePendingTx(ctx context.Context, pp *payment.PendingPayment, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreatePendingTx"),
		zap.Uint("user_id", pp.UserID),
		zap.String("gateway_order_id", pp.GatewayOrderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO payments (user_id, gateway_order_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`,
		pp.UserID, pp.GatewayOrderID, pp.Amount, payment.StatusPending,
	).Scan(&pp.ID, &pp.CreatedAt)
	if err != nil {
		log.Error("failed to insert pending payment", zap.Error(err))
		return err
	}
	pp.Status = payment.StatusPending

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, payment_id, payment_status, delivery_status,
		                    shipping_address, estimated_delivery_date)
		VALUES ($1, $2, $3, $4, $5, NOW() + INTERVAL '5 days')
		RETURNING id, created_at, estimated_delivery_date
	`,
		o.UserID, pp.ID, PaymentPending, DeliveryPlaced, o.ShippingAddress,
	).Scan(&o.ID, &o.CreatedAt, &o.EstimatedDeliveryDate)
	if err != nil {
		log.Error("failed to insert pending order", zap.Error(err))
		return err
	}
	o.PaymentID = pp.ID
	o.PaymentStatus = PaymentPending
	o.DeliveryStatus = DeliveryPlaced

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit pending checkout", zap.Error(err))
		return err
	}

	log.Info("pending checkout created", zap.Uint("order_id", o.ID))
	return nil
}

func (r *repository) CompletePaymentTx(ctx context.Context, userID uint, gatewayOrderID, gatewayPaymentID string) (uint, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CompletePaymentTx"),
		zap.Uint("user_id", userID),
		zap.String("gateway_order_id", gatewayOrderID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return 0, err
	}
	defer tx.Rollback()

	// Row lock so two concurrent verifies for the same confirmation
	// serialize here; the loser sees status=completed.
	var paymentID uint
	var status payment.Status
	err = tx.QueryRowContext(ctx, `
		SELECT id, status
		FROM payments
		WHERE gateway_order_id = $1 AND user_id = $2
		FOR UPDATE
	`, gatewayOrderID, userID).Scan(&paymentID, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, payment.ErrPaymentNotFound
	}
	if err != nil {
		log.Error("failed to lock pending payment", zap.Error(err))
		return 0, err
	}

	if status == payment.StatusCompleted {
		log.Warn("payment already processed")
		return 0, payment.ErrAlreadyProcessed
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, gateway_payment_id = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, payment.StatusCompleted, gatewayPaymentID, paymentID, payment.StatusPending)
	if err != nil {
		log.Error("failed to complete payment", zap.Error(err))
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, payment.ErrAlreadyProcessed
	}

	var orderID uint
	err = tx.QueryRowContext(ctx, `
		UPDATE orders
		SET payment_status = $1, delivery_status = $2
		WHERE payment_id = $3
		RETURNING id
	`, PaymentCompleted, DeliveryProcessing, paymentID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to complete order", zap.Error(err))
		return 0, err
	}

	// Snapshot pricing comes from the cart line, not the live book row.
	res, err = tx.ExecContext(ctx, `
		INSERT INTO order_items (order_id, book_id, quantity, price_at_time)
		SELECT $1, book_id, quantity,
		       ROUND(original_price * (1 - discount_pct / 100.0), 2)
		FROM cart
		WHERE user_id = $2
	`, orderID, userID)
	if err != nil {
		log.Error("failed to insert order items", zap.Error(err))
		return 0, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if inserted == 0 {
		log.Warn("verified payment with empty cart, rolling back")
		return 0, ErrEmptyCart
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE books b
		SET total_sold = b.total_sold + c.quantity
		FROM cart c
		WHERE c.user_id = $1 AND b.id = c.book_id
	`, userID)
	if err != nil {
		log.Error("failed to bump total_sold", zap.Error(err))
		return 0, err
	}

	// Cart clears only after the items are durably recorded.
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1`, userID); err != nil {
		log.Error("failed to clear cart", zap.Error(err))
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit payment completion", zap.Error(err))
		return 0, err
	}

	log.Info("payment completed",
		zap.Uint("order_id", orderID),
		zap.Int64("items", inserted),
	)
	return orderID, nil
}

func (r *repository) GetByID(ctx context.Context, orderID uint) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, payment_id, payment_status, delivery_status,
		       shipping_address, tracking_number, created_at,
		       estimated_delivery_date, delivered_date, is_reviewed
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.UserID, &o.PaymentID, &o.PaymentStatus, &o.DeliveryStatus,
		&o.ShippingAddress, &o.TrackingNumber, &o.CreatedAt,
		&o.EstimatedDeliveryDate, &o.DeliveredDate, &o.IsReviewed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.book_id, b.title, oi.quantity, oi.price_at_time
		FROM order_items oi
		JOIN books b ON b.id = oi.book_id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Title,
			&item.Quantity, &item.PriceAtTime); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uint, limit, page int) ([]Order, error) {
	query := `
		SELECT id, user_id, payment_id, payment_status, delivery_status,
		       shipping_address, tracking_number, created_at,
		       estimated_delivery_date, delivered_date, is_reviewed
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.listOrders(ctx, query, userID, limit, (page-1)*limit)
}

func (r *repository) ListAll(ctx context.Context, status DeliveryStatus, limit, page int) ([]Order, error) {
	args := []any{}
	query := `
		SELECT id, user_id, payment_id, payment_status, delivery_status,
		       shipping_address, tracking_number, created_at,
		       estimated_delivery_date, delivered_date, is_reviewed
		FROM orders
		WHERE 1=1
	`

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND delivery_status = $%d", len(args))
	}

	args = append(args, limit, (page-1)*limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return r.listOrders(ctx, query, args...)
}

func (r *repository) listOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "listOrders"),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.PaymentID, &o.PaymentStatus, &o.DeliveryStatus,
			&o.ShippingAddress, &o.TrackingNumber, &o.CreatedAt,
			&o.EstimatedDeliveryDate, &o.DeliveredDate, &o.IsReviewed,
		); err != nil {
			log.Error("failed to scan order row", zap.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *repository) UpdateDeliveryStatusTx(ctx context.Context, orderID uint, target DeliveryStatus, trackingNumber *string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateDeliveryStatusTx"),
		zap.Uint("order_id", orderID),
		zap.String("target", string(target)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var current DeliveryStatus
	err = tx.QueryRowContext(ctx, `
		SELECT delivery_status FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if !CanTransition(current, target) {
		log.Warn("rejected delivery transition", zap.String("current", string(current)))
		return nil, ErrInvalidTransition
	}

	switch target {
	case DeliveryCancelled:
		// Cancellation refunds the payment as a forced side effect.
		_, err = tx.ExecContext(ctx, `
			UPDATE orders
			SET delivery_status = $1, payment_status = $2
			WHERE id = $3
		`, DeliveryCancelled, PaymentRefunded, orderID)
	case DeliveryDelivered:
		_, err = tx.ExecContext(ctx, `
			UPDATE orders
			SET delivery_status = $1, delivered_date = NOW()
			WHERE id = $2
		`, DeliveryDelivered, orderID)
	default:
		if trackingNumber != nil {
			_, err = tx.ExecContext(ctx, `
				UPDATE orders
				SET delivery_status = $1, tracking_number = $2
				WHERE id = $3
			`, target, *trackingNumber, orderID)
		} else {
			_, err = tx.ExecContext(ctx, `
				UPDATE orders SET delivery_status = $1 WHERE id = $2
			`, target, orderID)
		}
	}
	if err != nil {
		log.Error("failed to update delivery status", zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	log.Info("delivery status updated")
	return r.GetByID(ctx, orderID)
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE payment_status = $1),
			COALESCE(SUM(p.amount) FILTER (WHERE o.payment_status = $1), 0),
			COUNT(*) FILTER (WHERE o.payment_status = $1
				AND o.delivery_status NOT IN ($2, $3))
		FROM orders o
		JOIN payments p ON p.id = o.payment_id
	`

	var s Stats
	err := r.db.QueryRowContext(ctx, query,
		PaymentCompleted, DeliveryDelivered, DeliveryCancelled,
	).Scan(&s.TotalOrders, &s.CompletedOrders, &s.Revenue, &s.PendingDeliveries)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
