// 包 cache：基于 Redis 的查询结果缓存，包装任意 lookup.Service
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"ip-tracker/internal/logger"
	"ip-tracker/internal/lookup"
	"ip-tracker/internal/metrics"
	"ip-tracker/internal/query"
)

const DefaultTTL = 24 * time.Hour

// Service：rc 为 nil 时直接透传
// 约束：Invalid 查询不缓存，其结果取决于请求来源地址；错误结果不缓存
type Service struct {
	next lookup.Service
	rc   *redis.Client
	ttl  time.Duration
}

func New(next lookup.Service, rc *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{next: next, rc: rc, ttl: ttl}
}

// Key：缓存键与查询参数一一对应
func Key(q query.LookupQuery) string {
	p := query.BuildQueryParam(q)
	if p == "" {
		return ""
	}
	return "lookup:" + p
}

func (s *Service) Lookup(ctx context.Context, q query.LookupQuery) (*lookup.LocationRecord, error) {
	key := Key(q)
	if s.rc == nil || key == "" {
		return s.next.Lookup(ctx, q)
	}
	if b, err := s.rc.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var rec lookup.LocationRecord
		if err := json.Unmarshal(b, &rec); err == nil {
			metrics.CacheHitsTotal.Inc()
			logger.L().Debug("cache_hit", "key", key)
			return &rec, nil
		}
	} else if err != nil && err != redis.Nil {
		logger.L().Debug("cache_get_error", "key", key, "err", err)
	}
	metrics.CacheMissesTotal.Inc()

	rec, err := s.next.Lookup(ctx, q)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(rec); err == nil {
		if err := s.rc.Set(ctx, key, b, s.ttl).Err(); err != nil {
			logger.L().Debug("cache_set_error", "key", key, "err", err)
		}
	}
	return rec, nil
}
