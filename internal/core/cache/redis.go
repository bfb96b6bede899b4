package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/jlucaspains/sharp-cooking-api/internal/infrastructure/config"
	"github.com/jlucaspains/sharp-cooking-api/internal/pkg/common"
)

var _ Store = (*RedisStore)(nil)

// redisKeyPrefix 所有鍵的命名空間
const redisKeyPrefix = "sharp-cooking:"

// RedisStore 以 Redis 作為共享快取，讓多個實例共用解析結果
type RedisStore struct {
	client *redis.Client
	config *config.CacheConfig
	hits   atomic.Int64
	misses atomic.Int64
	errors atomic.Int64
}

// NewRedisStore 創建 Redis 快取並測試連接
func NewRedisStore(cfg *config.CacheConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("快取管理員已初始化",
		zap.String("driver", "redis"),
		zap.String("addr", cfg.RedisAddr),
		zap.Duration("存活時間", cfg.TTL),
	)

	return newRedisStore(client, cfg), nil
}

func newRedisStore(client *redis.Client, cfg *config.CacheConfig) *RedisStore {
	return &RedisStore{client: client, config: cfg}
}

// Get 獲取緩存
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.errors.Add(1)
			common.LogWarn("Failed to read cache", zap.String("鍵", key), zap.Error(err))
		}
		s.misses.Add(1)
		common.LogCacheMiss("redis", key)
		return nil, false
	}

	s.hits.Add(1)
	common.LogCacheHit("redis", key)
	return data, true
}

// Set 設置緩存
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, redisKeyPrefix+key, value, s.config.TTL).Err(); err != nil {
		s.errors.Add(1)
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats 獲取緩存統計信息
func (s *RedisStore) Stats() map[string]interface{} {
	return map[string]interface{}{
		"driver": "redis",
		"addr":   s.config.RedisAddr,
		"hits":   s.hits.Load(),
		"misses": s.misses.Load(),
		"errors": s.errors.Load(),
	}
}

// Close 關閉 Redis 連接
func (s *RedisStore) Close() error {
	return s.client.Close()
}
