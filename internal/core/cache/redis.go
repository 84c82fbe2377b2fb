package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// KeyPrefix Redis 中緩存鍵的前綴
const KeyPrefix = "recipe-finder:mealdb:"

// RedisCache 以 Redis 保存的緩存
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache 連線並確認 Redis 可用
func NewRedisCache(cfg config.CacheConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連線", zap.String("addr", cfg.RedisAddr))
	return NewRedisCacheWithClient(client, cfg.TTL), nil
}

// NewRedisCacheWithClient 使用既有的 client
func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get 獲取緩存；Redis 錯誤視為未命中
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, KeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			cacheLookups.WithLabelValues(config.BackendRedis, "miss").Inc()
			common.LogCacheMiss(config.BackendRedis, key)
		} else {
			cacheLookups.WithLabelValues(config.BackendRedis, "error").Inc()
			common.LogWarn("Redis 讀取快取失敗", zap.String("鍵", key), zap.Error(err))
		}
		return nil, false
	}

	cacheLookups.WithLabelValues(config.BackendRedis, "hit").Inc()
	common.LogCacheHit(config.BackendRedis, key)
	return data, true
}

// Set 設置緩存
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, KeyPrefix+key, value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉連線
func (c *RedisCache) Close() error {
	return c.client.Close()
}
