package review

import (
	"context"

	"nextchapter-be/internal/logger"
	"nextchapter-be/internal/metrics"

	"go.uber.org/zap"
)

// SubmitResult reports the stored review and whether the whole order
// is now reviewed.
type SubmitResult struct {
	Review        *Review `json:"review"`
	FullyReviewed bool    `json:"fully_reviewed"`
}

type Service interface {
	Submit(ctx context.Context, userID, orderID, bookID uint, rating int, comment string) (*SubmitResult, error)
	ListByOrder(ctx context.Context, orderID, userID uint) ([]Review, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, userID, orderID, bookID uint, rating int, comment string) (*SubmitResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.Uint("user_id", userID),
		zap.Uint("order_id", orderID),
		zap.Uint("book_id", bookID),
	)

	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	rev := &Review{
		OrderID: orderID,
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}

	fullyReviewed, err := s.repo.SubmitTx(ctx, rev)
	if err != nil {
		return nil, err
	}

	metrics.ReviewSubmitted()
	log.Info("review accepted", zap.Bool("fully_reviewed", fullyReviewed))

	return &SubmitResult{Review: rev, FullyReviewed: fullyReviewed}, nil
}

func (s *service) ListByOrder(ctx context.Context, orderID, userID uint) ([]Review, error) {
	return s.repo.ListByOrder(ctx, orderID, userID)
}
