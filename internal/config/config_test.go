package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ip-tracker/internal/lookup"
)

var keys = []string{
	"ADDR", "API_BASE", "LOOKUP_BASE_URL", "LOOKUP_API_KEY", "LOOKUP_TIMEOUT", "DEFAULT_QUERY",
	"STRICT_DOMAIN", "GEOIP_CITY_PATH", "GEOIP_ASN_PATH", "IP2REGION_V4_PATH", "IP2LOCATION_PATH", "REDIS_ENABLED",
	"CACHE_TTL", "STATS_ENABLED", "RATE_LIMIT_ENABLED", "RATE_LIMIT_QPS", "UI_DIST",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOOKUP_API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/api", cfg.APIBase)
	assert.Equal(t, lookup.DefaultBaseURL, cfg.LookupBaseURL)
	assert.Equal(t, 5*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 200, cfg.RateLimitQPS)
	assert.False(t, cfg.StrictDomain)
	assert.False(t, cfg.Offline())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEOIP_CITY_PATH", "data/GeoLite2-City.mmdb")
	t.Setenv("API_BASE", "/v1/")
	t.Setenv("STRICT_DOMAIN", "true")
	t.Setenv("LOOKUP_TIMEOUT", "2s")
	t.Setenv("RATE_LIMIT_QPS", "50")
	t.Setenv("DEFAULT_QUERY", "8.8.8.8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Offline())
	assert.Equal(t, "/v1", cfg.APIBase)
	assert.True(t, cfg.StrictDomain)
	assert.Equal(t, 2*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 50, cfg.RateLimitQPS)
	assert.Equal(t, "8.8.8.8", cfg.DefaultQuery)
}

func TestLoad_OfflineIP2Location(t *testing.T) {
	clearEnv(t)
	t.Setenv("IP2LOCATION_PATH", "data/IP2LOCATION-LITE-DB11.BIN")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Offline())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "no key and no offline db", env: map[string]string{}},
		{name: "bad timeout", env: map[string]string{"LOOKUP_API_KEY": "k", "LOOKUP_TIMEOUT": "soon"}},
		{name: "negative ttl", env: map[string]string{"LOOKUP_API_KEY": "k", "CACHE_TTL": "-1h"}},
		{name: "bad qps", env: map[string]string{"LOOKUP_API_KEY": "k", "RATE_LIMIT_QPS": "0"}},
		{name: "relative api base", env: map[string]string{"LOOKUP_API_KEY": "k", "API_BASE": "api"}},
		{name: "root api base", env: map[string]string{"LOOKUP_API_KEY": "k", "API_BASE": "/"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
