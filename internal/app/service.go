// 包 app：按配置组装查询服务与 HTTP 服务，供 cmd 下的入口复用
package app

import (
	"net/http"

	"github.com/redis/go-redis/v9"

	"ip-tracker/internal/cache"
	"ip-tracker/internal/config"
	"ip-tracker/internal/localdb"
	"ip-tracker/internal/localdb/chain"
	"ip-tracker/internal/localdb/geoip"
	"ip-tracker/internal/localdb/ip2location"
	"ip-tracker/internal/localdb/ip2region"
	"ip-tracker/internal/logger"
	"ip-tracker/internal/lookup"
)

// Services：已组装的查询链路；Close 释放离线库句柄
type Services struct {
	Lookup lookup.Service
	closers []func()
}

func (s *Services) Close() {
	for _, c := range s.closers {
		c()
	}
}

// BuildLookup：有密钥时走在线服务，否则用离线库（GeoIP → IP2Location → IP2Region）
// rc 非空时外层包一层 Redis 缓存
func BuildLookup(cfg config.Config, rc *redis.Client) (*Services, error) {
	l := logger.L()
	s := &Services{}

	if !cfg.Offline() {
		s.Lookup = lookup.NewClient(cfg.LookupBaseURL, cfg.LookupAPIKey, &http.Client{Timeout: cfg.LookupTimeout})
		l.Info("lookup_backend", "backend", "online", "base", cfg.LookupBaseURL)
	} else {
		var list []localdb.Resolver
		if cfg.GeoIPCityPath != "" {
			r, err := geoip.Open(cfg.GeoIPCityPath, cfg.GeoIPASNPath)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.closers = append(s.closers, func() { _ = r.Close() })
			list = append(list, r)
			l.Info("geoip_ready", "city", cfg.GeoIPCityPath, "asn", cfg.GeoIPASNPath)
		}
		if cfg.IP2LocationPath != "" {
			d, err := ip2location.Open(cfg.IP2LocationPath)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.closers = append(s.closers, d.Close)
			list = append(list, d)
			l.Info("ip2location_ready", "path", cfg.IP2LocationPath)
		}
		if cfg.IP2RegionV4Path != "" {
			c, err := ip2region.NewIP2RegionCache(cfg.IP2RegionV4Path)
			if err != nil {
				s.Close()
				return nil, err
			}
			s.closers = append(s.closers, c.Close)
			list = append(list, c)
			l.Info("ip2region_ready", "path", cfg.IP2RegionV4Path)
		}
		s.Lookup = localdb.NewService(chain.NewChainCache(list...), nil)
		l.Info("lookup_backend", "backend", "offline", "resolvers", len(list))
	}

	if rc != nil {
		s.Lookup = cache.New(s.Lookup, rc, cfg.CacheTTL)
		l.Info("lookup_cache_enabled", "ttl", cfg.CacheTTL.String())
	}
	return s, nil
}
