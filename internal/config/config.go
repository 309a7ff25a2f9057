// 包 config：从环境变量读取服务配置（.env 由入口通过 godotenv 预先加载）
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ip-tracker/internal/lookup"
)

type Config struct {
	Addr    string
	APIBase string
	UIDist  string

	LookupBaseURL string
	LookupAPIKey  string
	LookupTimeout time.Duration
	DefaultQuery  string
	StrictDomain  bool

	GeoIPCityPath   string
	GeoIPASNPath    string
	IP2RegionV4Path string
	IP2LocationPath string

	RedisEnabled bool
	CacheTTL     time.Duration
	StatsEnabled bool

	RateLimitEnabled bool
	RateLimitQPS     int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}

func getduration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func Load() (Config, error) {
	cfg := Config{
		Addr:             getenv("ADDR", ":8080"),
		APIBase:          strings.TrimRight(getenv("API_BASE", "/api"), "/"),
		UIDist:           os.Getenv("UI_DIST"),
		LookupBaseURL:    getenv("LOOKUP_BASE_URL", lookup.DefaultBaseURL),
		LookupAPIKey:     os.Getenv("LOOKUP_API_KEY"),
		DefaultQuery:     os.Getenv("DEFAULT_QUERY"),
		StrictDomain:     getbool("STRICT_DOMAIN"),
		GeoIPCityPath:    os.Getenv("GEOIP_CITY_PATH"),
		GeoIPASNPath:     os.Getenv("GEOIP_ASN_PATH"),
		IP2RegionV4Path:  os.Getenv("IP2REGION_V4_PATH"),
		IP2LocationPath:  os.Getenv("IP2LOCATION_PATH"),
		RedisEnabled:     getbool("REDIS_ENABLED"),
		StatsEnabled:     getbool("STATS_ENABLED"),
		RateLimitEnabled: getbool("RATE_LIMIT_ENABLED"),
		RateLimitQPS:     200,
	}

	var err error
	if cfg.LookupTimeout, err = getduration("LOOKUP_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getduration("CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if s := os.Getenv("RATE_LIMIT_QPS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid RATE_LIMIT_QPS=%q", s)
		}
		cfg.RateLimitQPS = n
	}
	if !strings.HasPrefix(cfg.APIBase, "/") {
		return Config{}, fmt.Errorf("API_BASE must start with '/', got %q", cfg.APIBase)
	}
	if cfg.LookupAPIKey == "" && !cfg.Offline() {
		return Config{}, fmt.Errorf("LOOKUP_API_KEY is empty and no offline database (GEOIP_CITY_PATH / IP2LOCATION_PATH / IP2REGION_V4_PATH) is configured")
	}
	return cfg, nil
}

// Offline：未配置查询服务密钥时使用本地离线库
func (c Config) Offline() bool {
	return c.LookupAPIKey == "" && (c.GeoIPCityPath != "" || c.IP2LocationPath != "" || c.IP2RegionV4Path != "")
}
