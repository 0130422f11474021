package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to addr and pings it once.
func NewRedisClient(ctx context.Context, addr, password string, log *zap.SugaredLogger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Errorw("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	log.Infow("Redis connection successful", "address", addr)
	return rdb, nil
}
