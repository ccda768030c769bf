package review

import (
	"context"
	"database/sql"
	"errors"

	"nextchapter-be/internal/logger"
	"nextchapter-be/internal/order"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	// SubmitTx inserts the review and refreshes the book's rating
	// aggregates in one transaction. It reports whether every book on
	// the order is now reviewed.
	SubmitTx(ctx context.Context, r *Review) (fullyReviewed bool, err error)

	ListByOrder(ctx context.Context, orderID, userID uint) ([]Review, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SubmitTx(ctx context.Context, rev *Review) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "SubmitTx"),
		zap.Uint("order_id", rev.OrderID),
		zap.Uint("book_id", rev.BookID),
		zap.Uint("user_id", rev.UserID),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return false, err
	}
	defer tx.Rollback()

	// Lock the order so concurrent reviews for it see a consistent
	// is_reviewed recomputation.
	var ownerID uint
	var deliveryStatus order.DeliveryStatus
	err = tx.QueryRowContext(ctx, `
		SELECT user_id, delivery_status FROM orders WHERE id = $1 FOR UPDATE
	`, rev.OrderID).Scan(&ownerID, &deliveryStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to lock order", zap.Error(err))
		return false, err
	}

	if ownerID != rev.UserID {
		return false, ErrOrderNotFound
	}
	if deliveryStatus != order.DeliveryDelivered {
		return false, ErrNotDeliverable
	}

	var onOrder bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM order_items WHERE order_id = $1 AND book_id = $2
		)
	`, rev.OrderID, rev.BookID).Scan(&onOrder)
	if err != nil {
		log.Error("failed to check order item", zap.Error(err))
		return false, err
	}
	if !onOrder {
		return false, ErrItemNotFound
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO reviews (order_id, book_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, rev.OrderID, rev.BookID, rev.UserID, rev.Rating, rev.Comment).
		Scan(&rev.ID, &rev.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return false, ErrDuplicateReview
		}
		log.Error("failed to insert review", zap.Error(err))
		return false, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE books b
		SET rating = agg.avg_rating, rating_count = agg.review_count
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 1) AS avg_rating,
			       COUNT(*) AS review_count
			FROM reviews
			WHERE book_id = $1
		) agg
		WHERE b.id = $1
	`, rev.BookID)
	if err != nil {
		log.Error("failed to refresh book rating", zap.Error(err))
		return false, err
	}

	var fullyReviewed bool
	err = tx.QueryRowContext(ctx, `
		UPDATE orders
		SET is_reviewed = (
			(SELECT COUNT(DISTINCT book_id) FROM reviews WHERE order_id = $1) =
			(SELECT COUNT(DISTINCT book_id) FROM order_items WHERE order_id = $1)
		)
		WHERE id = $1
		RETURNING is_reviewed
	`, rev.OrderID).Scan(&fullyReviewed)
	if err != nil {
		log.Error("failed to refresh order review flag", zap.Error(err))
		return false, err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit review", zap.Error(err))
		return false, err
	}

	log.Info("review submitted",
		zap.Int("rating", rev.Rating),
		zap.Bool("fully_reviewed", fullyReviewed),
	)
	return fullyReviewed, nil
}

func (r *repository) ListByOrder(ctx context.Context, orderID, userID uint) ([]Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByOrder"),
		zap.Uint("order_id", orderID),
	)

	var ownerID uint
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id FROM orders WHERE id = $1
	`, orderID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		return nil, ErrOrderNotFound
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, book_id, user_id, rating, comment, created_at
		FROM reviews
		WHERE order_id = $1
		ORDER BY created_at
	`, orderID)
	if err != nil {
		log.Error("failed to query reviews", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	reviews := make([]Review, 0)
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.OrderID, &rev.BookID, &rev.UserID,
			&rev.Rating, &rev.Comment, &rev.CreatedAt); err != nil {
			log.Error("failed to scan review row", zap.Error(err))
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}
