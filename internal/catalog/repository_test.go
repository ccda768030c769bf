package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "external_id", "title", "authors", "description", "category", "thumbnail",
		"original_price", "discount_pct", "rating", "rating_count", "total_sold", "created_at",
	})
}

func TestRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := bookRows().AddRow(
			7, "ext-7", "The Go Programming Language", pq.Array([]string{"Donovan", "Kernighan"}),
			"desc", "programming", "thumb.jpg", 500.0, 10, 4.5, 12, 30, time.Now(),
		)

		mock.ExpectQuery("SELECT (.+) FROM books WHERE id").
			WithArgs(7).
			WillReturnRows(rows)

		b, err := repo.GetByID(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, "The Go Programming Language", b.Title)
		assert.Equal(t, []string{"Donovan", "Kernighan"}, b.Authors)
		assert.Equal(t, 10, b.DiscountPct)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM books WHERE id").
			WithArgs(99).
			WillReturnRows(bookRows())

		_, err := repo.GetByID(context.Background(), 99)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

func TestRepository_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := bookRows().AddRow(
			1, "ext-1", "Dune", pq.Array([]string{"Herbert"}),
			"desc", "sci-fi", "t.jpg", 300.0, 0, 4.8, 40, 100, time.Now(),
		)

		mock.ExpectQuery("SELECT (.+) FROM books").
			WithArgs("%dune%", 10).
			WillReturnRows(rows)

		books, err := repo.Search(context.Background(), "dune", 10)
		assert.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM books").
			WillReturnError(errors.New("db error"))

		_, err := repo.Search(context.Background(), "dune", 10)
		assert.Error(t, err)
	})
}

func TestRepository_BestSellers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := bookRows().
		AddRow(1, "e1", "A", pq.Array([]string{"X"}), "", "c", "", 100.0, 0, 4.0, 2, 50, time.Now()).
		AddRow(2, "e2", "B", pq.Array([]string{"Y"}), "", "c", "", 200.0, 5, 3.9, 8, 40, time.Now())

	mock.ExpectQuery("SELECT (.+) FROM books ORDER BY total_sold DESC").
		WithArgs(2).
		WillReturnRows(rows)

	books, err := repo.BestSellers(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, "A", books[0].Title)
}
