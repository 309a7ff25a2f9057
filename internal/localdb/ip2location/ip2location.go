// 包 ip2location：IP2Location BIN 离线库（LITE DB 系列）
package ip2location

import (
	"net"
	"strings"

	"github.com/ip2location/ip2location-go/v9"

	"ip-tracker/internal/lookup"
	"ip-tracker/internal/metrics"
)

type DB struct {
	db *ip2location.DB
}

func Open(path string) (*DB, error) {
	db, err := ip2location.OpenDB(path)
	if err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() {
	if d.db != nil {
		d.db.Close()
	}
}

func (d *DB) Lookup(ip string) (lookup.LocationRecord, bool) {
	p := net.ParseIP(ip)
	if d.db == nil || p == nil || p.To4() == nil {
		return lookup.LocationRecord{}, false
	}
	r, err := d.db.Get_all(p.String())
	if err != nil {
		metrics.LocalLookupsTotal.WithLabelValues("ip2location", "miss").Inc()
		return lookup.LocationRecord{}, false
	}
	rec, ok := FromRecord(p.String(), r)
	if !ok {
		metrics.LocalLookupsTotal.WithLabelValues("ip2location", "miss").Inc()
		return rec, false
	}
	metrics.LocalLookupsTotal.WithLabelValues("ip2location", "hit").Inc()
	return rec, true
}

// FromRecord：国家未知视为未命中；时区字段已是 UTC 偏移格式
func FromRecord(ip string, r ip2location.IP2Locationrecord) (lookup.LocationRecord, bool) {
	rec := lookup.LocationRecord{IP: ip, ISP: field(r.Isp)}
	rec.Location.Country = field(r.Country_short)
	rec.Location.Region = field(r.Region)
	rec.Location.City = field(r.City)
	rec.Location.PostalCode = field(r.Zipcode)
	rec.Location.Timezone = field(r.Timezone)
	rec.Location.Lat = float64(r.Latitude)
	rec.Location.Lng = float64(r.Longitude)
	return rec, rec.Location.Country != ""
}

// field：库中 "-" 表示未知；低规格库对不支持的字段返回提示文本
func field(s string) string {
	s = strings.TrimSpace(s)
	if s == "-" || strings.Contains(s, "unavailable") || strings.HasPrefix(s, "Invalid") {
		return ""
	}
	return s
}
