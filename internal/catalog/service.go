package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nextchapter-be/internal/cache"
	"nextchapter-be/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100

	listCacheTTL = 5 * time.Minute
)

type Service interface {
	GetBook(ctx context.Context, id uint) (*Book, error)
	Search(ctx context.Context, query string, limit int) ([]Book, error)
	BestSellers(ctx context.Context, limit int) ([]Book, error)
	TopRated(ctx context.Context, limit int) ([]Book, error)
	NewArrivals(ctx context.Context, limit int) ([]Book, error)
	ByCategory(ctx context.Context, category string, limit int) ([]Book, error)
}

type service struct {
	repo Repository
	rdb  *redis.Client
}

// NewService builds the catalog service. rdb may be nil; list queries
// then go straight to the database.
func NewService(repo Repository, rdb *redis.Client) Service {
	return &service{repo: repo, rdb: rdb}
}

func (s *service) GetBook(ctx context.Context, id uint) (*Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Search(ctx context.Context, query string, limit int) ([]Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []Book{}, nil
	}
	return s.repo.Search(ctx, query, clampLimit(limit))
}

func (s *service) BestSellers(ctx context.Context, limit int) ([]Book, error) {
	limit = clampLimit(limit)
	return s.cachedList(ctx, fmt.Sprintf("catalog:best-sellers:%d", limit), func() ([]Book, error) {
		return s.repo.BestSellers(ctx, limit)
	})
}

func (s *service) TopRated(ctx context.Context, limit int) ([]Book, error) {
	limit = clampLimit(limit)
	return s.cachedList(ctx, fmt.Sprintf("catalog:top-rated:%d", limit), func() ([]Book, error) {
		return s.repo.TopRated(ctx, limit)
	})
}

func (s *service) NewArrivals(ctx context.Context, limit int) ([]Book, error) {
	limit = clampLimit(limit)
	return s.cachedList(ctx, fmt.Sprintf("catalog:new-arrivals:%d", limit), func() ([]Book, error) {
		return s.repo.NewArrivals(ctx, limit)
	})
}

func (s *service) ByCategory(ctx context.Context, category string, limit int) ([]Book, error) {
	limit = clampLimit(limit)
	key := fmt.Sprintf("catalog:category:%s:%d", strings.ToLower(category), limit)
	return s.cachedList(ctx, key, func() ([]Book, error) {
		return s.repo.ByCategory(ctx, category, limit)
	})
}

// cachedList serves read-mostly book lists through redis with a short
// TTL. Cache errors degrade to a direct database read.
func (s *service) cachedList(ctx context.Context, key string, load func() ([]Book, error)) ([]Book, error) {
	if s.rdb == nil {
		return load()
	}

	log := logger.FromCtx(ctx).With(zap.String("cache_key", key))

	var books []Book
	hit, err := cache.GetJSON(ctx, s.rdb, key, &books)
	if err != nil {
		log.Warn("catalog cache read failed", zap.Error(err))
	}
	if hit {
		log.Debug("catalog cache hit")
		return books, nil
	}

	books, err = load()
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.rdb, key, books, listCacheTTL); err != nil {
		log.Warn("catalog cache write failed", zap.Error(err))
	}

	return books, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
