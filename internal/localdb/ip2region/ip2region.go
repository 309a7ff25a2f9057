package ip2region

import (
	"strings"

	"github.com/lionsoul2014/ip2region/binding/golang/xdb"

	"ip-tracker/internal/lookup"
	"ip-tracker/internal/metrics"
)

// IP2RegionCache：ip2region xdb 离线库；区域串格式 country|region|province|city|isp
type IP2RegionCache struct {
	v4 *xdb.Searcher
}

func NewIP2RegionCache(v4Path string) (*IP2RegionCache, error) {
	s, err := xdb.NewWithFileOnly(xdb.IPv4, v4Path)
	if err != nil {
		return nil, err
	}
	return &IP2RegionCache{v4: s}, nil
}

func (c *IP2RegionCache) Lookup(ip string) (lookup.LocationRecord, bool) {
	if ip == "" || c.v4 == nil {
		return lookup.LocationRecord{}, false
	}
	region, err := c.v4.SearchByStr(ip)
	if err != nil || region == "" {
		metrics.LocalLookupsTotal.WithLabelValues("ip2region", "miss").Inc()
		return lookup.LocationRecord{}, false
	}
	rec := ParseRegion(region)
	if rec.Location.Country == "" && rec.Location.City == "" {
		metrics.LocalLookupsTotal.WithLabelValues("ip2region", "miss").Inc()
		return lookup.LocationRecord{}, false
	}
	rec.IP = ip
	metrics.LocalLookupsTotal.WithLabelValues("ip2region", "hit").Inc()
	return rec, true
}

func (c *IP2RegionCache) Close() {
	if c.v4 != nil {
		c.v4.Close()
	}
}

// ParseRegion：省份优先作为 region，缺失时退回大区字段
func ParseRegion(s string) lookup.LocationRecord {
	parts := strings.Split(s, "|")
	field := func(i int) string {
		if i < len(parts) {
			return safe(parts[i])
		}
		return ""
	}
	var rec lookup.LocationRecord
	rec.Location.Country = field(0)
	rec.Location.Region = field(2)
	if rec.Location.Region == "" {
		rec.Location.Region = field(1)
	}
	rec.Location.City = field(3)
	rec.ISP = field(4)
	return rec
}

func safe(s string) string {
	s = strings.TrimSpace(s)
	if s == "0" || s == "" || strings.EqualFold(s, "unknown") {
		return ""
	}
	return s
}
