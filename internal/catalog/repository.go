package catalog

import (
	"context"
	"database/sql"
	"errors"

	"nextchapter-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const bookColumns = `
	id, external_id, title, authors, description, category, thumbnail,
	original_price, discount_pct, rating, rating_count, total_sold, created_at
`

type Repository interface {
	GetByID(ctx context.Context, id uint) (*Book, error)
	Search(ctx context.Context, query string, limit int) ([]Book, error)
	BestSellers(ctx context.Context, limit int) ([]Book, error)
	TopRated(ctx context.Context, limit int) ([]Book, error)
	NewArrivals(ctx context.Context, limit int) ([]Book, error)
	ByCategory(ctx context.Context, category string, limit int) ([]Book, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	var b Book
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ExternalID, &b.Title, pq.Array(&b.Authors), &b.Description,
		&b.Category, &b.Thumbnail, &b.OriginalPrice, &b.DiscountPct,
		&b.Rating, &b.RatingCount, &b.TotalSold, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}

	return &b, nil
}

func (r *repository) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	q := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE $1 OR array_to_string(authors, ' ') ILIKE $1
		ORDER BY total_sold DESC
		LIMIT $2
	`
	return r.list(ctx, q, "%"+query+"%", limit)
}

func (r *repository) BestSellers(ctx context.Context, limit int) ([]Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books ORDER BY total_sold DESC LIMIT $1`
	return r.list(ctx, q, limit)
}

func (r *repository) TopRated(ctx context.Context, limit int) ([]Book, error) {
	q := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE rating_count > 0
		ORDER BY rating DESC, rating_count DESC
		LIMIT $1
	`
	return r.list(ctx, q, limit)
}

func (r *repository) NewArrivals(ctx context.Context, limit int) ([]Book, error) {
	q := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC LIMIT $1`
	return r.list(ctx, q, limit)
}

func (r *repository) ByCategory(ctx context.Context, category string, limit int) ([]Book, error) {
	q := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE category = $1
		ORDER BY total_sold DESC
		LIMIT $2
	`
	return r.list(ctx, q, category, limit)
}

func (r *repository) list(ctx context.Context, query string, args ...any) ([]Book, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "list"),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query books", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	books := make([]Book, 0)
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.ExternalID, &b.Title, pq.Array(&b.Authors), &b.Description,
			&b.Category, &b.Thumbnail, &b.OriginalPrice, &b.DiscountPct,
			&b.Rating, &b.RatingCount, &b.TotalSold, &b.CreatedAt,
		); err != nil {
			log.Error("failed to scan book row", zap.Error(err))
			return nil, err
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return books, nil
}
