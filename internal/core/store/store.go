package store

import (
	"context"
	"errors"
	"fmt"

	"recipe-finder/internal/infrastructure/config"
)

// ErrNotFound 鍵不存在
var ErrNotFound = errors.New("store: key not found")

// KV 使用者資料的鍵值儲存
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New 依設定建立儲存後端
func New(cfg config.StoreConfig) (KV, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryStore(), nil
	case config.BackendRedis:
		return NewRedisStore(cfg.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
