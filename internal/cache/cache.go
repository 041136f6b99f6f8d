package cache

import (
	"context"
	"encoding/json"
	"time"

	"homeoerp-backend/internal/config"
	"homeoerp-backend/internal/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var client *redis.Client

// Init connects to redis. A missing redis is non-fatal: every read falls
// back to recomputing, the cache is purely a dashboard accelerator.
func Init(cfg *config.Config) {
	client = redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.L.Warn("redis unavailable, caching disabled", zap.Error(err))
		client = nil
	}
}

// GetJSON loads a cached value into dest. Returns false on miss, disabled
// cache, or decode failure.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, dest) == nil
}

func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.L.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func Delete(ctx context.Context, key string) {
	if client == nil {
		return
	}
	_ = client.Del(ctx, key).Err()
}
