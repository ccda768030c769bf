package cart

import (
	"context"
	"errors"

	"nextchapter-be/internal/catalog"
	"nextchapter-be/internal/logger"

	"go.uber.org/zap"
)

type AddParams struct {
	UserID   uint
	BookID   uint
	Quantity int
}

type UpdateParams struct {
	UserID   uint
	BookID   uint
	Quantity int
}

// Service defines the business logic for carts.
type Service interface {
	Add(ctx context.Context, params AddParams) (*CartLine, error)
	Get(ctx context.Context, userID uint) ([]CartLine, error)
	UpdateQuantity(ctx context.Context, params UpdateParams) error
	Remove(ctx context.Context, userID, bookID uint) error
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	catalogRepo catalog.Repository
}

func NewService(repo Repository, catalogRepo catalog.Repository) Service {
	return &service{repo: repo, catalogRepo: catalogRepo}
}

// Add puts a book into the user's cart, snapshotting the price and
// discount the user saw. A repeat add increments the quantity.
func (s *service) Add(ctx context.Context, params AddParams) (*CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Add"),
		zap.Uint("user_id", params.UserID),
		zap.Uint("book_id", params.BookID),
	)

	if params.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	book, err := s.catalogRepo.GetByID(ctx, params.BookID)
	if err != nil {
		if errors.Is(err, catalog.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	existing, err := s.repo.GetLine(ctx, params.UserID, params.BookID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		finalQty := existing.Quantity + params.Quantity
		if err := s.repo.SetQuantity(ctx, params.UserID, params.BookID, finalQty); err != nil {
			return nil, err
		}
		existing.Quantity = finalQty
		log.Info("cart quantity incremented", zap.Int("quantity", finalQty))
		return existing, nil
	}

	line := &CartLine{
		UserID:        params.UserID,
		BookID:        book.ID,
		Title:         book.Title,
		Authors:       book.Authors,
		Thumbnail:     book.Thumbnail,
		OriginalPrice: book.OriginalPrice,
		DiscountPct:   book.DiscountPct,
		Quantity:      params.Quantity,
	}

	return s.repo.CreateLine(ctx, line)
}

func (s *service) Get(ctx context.Context, userID uint) ([]CartLine, error) {
	return s.repo.GetLines(ctx, userID)
}

// UpdateQuantity sets the quantity outright; zero or negative removes
// the line.
func (s *service) UpdateQuantity(ctx context.Context, params UpdateParams) error {
	if params.Quantity <= 0 {
		return s.repo.RemoveLine(ctx, params.UserID, params.BookID)
	}
	return s.repo.SetQuantity(ctx, params.UserID, params.BookID, params.Quantity)
}

func (s *service) Remove(ctx context.Context, userID, bookID uint) error {
	return s.repo.RemoveLine(ctx, userID, bookID)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	return s.repo.Clear(ctx, userID)
}
