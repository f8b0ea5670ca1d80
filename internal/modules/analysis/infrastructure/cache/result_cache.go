package cache

import (
	"context"
	"encoding/json"
	"time"

	"MaintLens/internal/modules/analysis/domain/analysis"
	"MaintLens/pkg/zlog"

	"go.uber.org/zap"
)

// CacheInterface 缓存接口定义，生产环境由 pkg/redis.Store 实现
type CacheInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) (int64, error)
}

// ResultCache 按 JSON 存取分析结果。
// 所有错误只记日志，缓存不可用时退化为未命中。
type ResultCache struct {
	store CacheInterface
	ttl   time.Duration
}

func NewResultCache(store CacheInterface, ttl time.Duration) *ResultCache {
	return &ResultCache{store: store, ttl: ttl}
}

func (c *ResultCache) Get(ctx context.Context, key string) (analysis.Result, bool) {
	if c == nil || c.store == nil || key == "" {
		return analysis.Result{}, false
	}
	raw, err := c.store.Get(ctx, key)
	if err != nil || raw == "" {
		return analysis.Result{}, false
	}

	var r analysis.Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		zlog.Warn("analysis cache entry corrupt", zap.String("cache_key", key), zap.Error(err))
		_, _ = c.store.Del(ctx, key)
		return analysis.Result{}, false
	}
	if r.Issues == nil {
		r.Issues = make([]string, 0)
	}
	return r, true
}

// Set 兜底结果不写缓存
func (c *ResultCache) Set(ctx context.Context, key string, r analysis.Result) {
	if c == nil || c.store == nil || key == "" || r.IsFallback() {
		return
	}
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, key, string(b), c.ttl); err != nil {
		zlog.Warn("analysis cache set failed", zap.String("cache_key", key), zap.Error(err))
	}
}
