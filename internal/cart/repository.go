package cart

import (
	"context"
	"database/sql"
	"errors"

	"nextchapter-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetLine(ctx context.Context, userID, bookID uint) (*CartLine, error)
	GetLines(ctx context.Context, userID uint) ([]CartLine, error)
	CreateLine(ctx context.Context, line *CartLine) (*CartLine, error)
	SetQuantity(ctx context.Context, userID, bookID uint, quantity int) error
	RemoveLine(ctx context.Context, userID, bookID uint) error
	Clear(ctx context.Context, userID uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetLine(ctx context.Context, userID, bookID uint) (*CartLine, error) {
	query := `
		SELECT user_id, book_id, title, authors, thumbnail,
		       original_price, discount_pct, quantity, created_at, updated_at
		FROM cart
		WHERE user_id = $1 AND book_id = $2
	`

	var l CartLine
	err := r.db.QueryRowContext(ctx, query, userID, bookID).Scan(
		&l.UserID, &l.BookID, &l.Title, pq.Array(&l.Authors), &l.Thumbnail,
		&l.OriginalPrice, &l.DiscountPct, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &l, nil
}

func (r *repository) GetLines(ctx context.Context, userID uint) ([]CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetLines"),
		zap.Uint("user_id", userID),
	)

	query := `
		SELECT user_id, book_id, title, authors, thumbnail,
		       original_price, discount_pct, quantity, created_at, updated_at
		FROM cart
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to query cart lines", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	lines := make([]CartLine, 0)
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(
			&l.UserID, &l.BookID, &l.Title, pq.Array(&l.Authors), &l.Thumbnail,
			&l.OriginalPrice, &l.DiscountPct, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			log.Error("failed to scan cart row", zap.Error(err))
			return nil, err
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

func (r *repository) CreateLine(ctx context.Context, line *CartLine) (*CartLine, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateLine"),
		zap.Uint("user_id", line.UserID),
		zap.Uint("book_id", line.BookID),
	)

	query := `
		INSERT INTO cart (user_id, book_id, title, authors, thumbnail,
		                  original_price, discount_pct, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		line.UserID, line.BookID, line.Title, pq.Array(line.Authors), line.Thumbnail,
		line.OriginalPrice, line.DiscountPct, line.Quantity,
	).Scan(&line.CreatedAt, &line.UpdatedAt)
	if err != nil {
		log.Error("failed to create cart line", zap.Error(err))
		return nil, err
	}

	log.Info("cart line created", zap.Int("quantity", line.Quantity))
	return line, nil
}

func (r *repository) SetQuantity(ctx context.Context, userID, bookID uint, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cart
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND book_id = $3
	`, quantity, userID, bookID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}

	return nil
}

func (r *repository) RemoveLine(ctx context.Context, userID, bookID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM cart
		WHERE user_id = $1 AND book_id = $2
	`, userID, bookID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrLineNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1`, userID)
	return err
}
