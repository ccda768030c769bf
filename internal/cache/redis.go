package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nextchapter-be/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis connects to redis. A nil client is a valid return for
// deployments without redis; callers treat it as cache-off.
func InitRedis(cfg *config.Config, logger *zap.Logger) *redis.Client {
	if cfg.RedisHost == "" {
		logger.Warn("REDIS_HOST not set, catalog cache disabled")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("failed to connect to redis, catalog cache disabled", zap.Error(err))
		return nil
	}

	logger.Info("Redis connection established")
	return rdb
}

func GetJSON(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	data, err := rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func SetJSON(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, data, ttl).Err()
}
