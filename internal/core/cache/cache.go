// Package cache 快取已解析的食譜結果
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/jlucaspains/sharp-cooking-api/internal/infrastructure/config"
)

var errCacheFull = errors.New("cache is full")

// Store 快取儲存介面
type Store interface {
	// Get 取得快取值，不存在或已過期時 ok 為 false
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set 設置快取值
	Set(ctx context.Context, key string, value []byte) error
	// Stats 快取統計資訊
	Stats() map[string]interface{}
	// Close 關閉快取
	Close() error
}

// Key 由多個部分組成快取鍵
func Key(prefix string, parts ...string) string {
	h := xxhash.New()
	for _, p := range parts {
		_, _ = h.WriteString(p)
		_, _ = h.Write([]byte{0})
	}
	return prefix + ":" + strconv.FormatUint(h.Sum64(), 16)
}

// NewStore 依設定建立快取，快取關閉時回傳 nil
func NewStore(cfg *config.CacheConfig) (Store, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemoryStore(cfg), nil
	case "redis":
		return NewRedisStore(cfg)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}
