package geoip

import (
	"net"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/oschwald/maxminddb-golang"

	"ip-tracker/internal/localdb"
	"ip-tracker/internal/lookup"
	"ip-tracker/internal/metrics"
)

// Reader：MaxMind City 库，可选 ASN 库补充 ISP 字段
type Reader struct {
	city *geoip2.Reader
	asn  *maxminddb.Reader
	lang string
}

// Open：asnPath 可为空
func Open(cityPath, asnPath string) (*Reader, error) {
	city, err := geoip2.Open(cityPath)
	if err != nil {
		return nil, err
	}
	r := &Reader{city: city, lang: "en"}
	if asnPath != "" {
		asn, err := maxminddb.Open(asnPath)
		if err != nil {
			city.Close()
			return nil, err
		}
		r.asn = asn
	}
	return r, nil
}

func (r *Reader) Close() error {
	if r.asn != nil {
		_ = r.asn.Close()
	}
	return r.city.Close()
}

// asnRecord：ASN 库只解码需要的字段
type asnRecord struct {
	Number uint   `maxminddb:"autonomous_system_number"`
	Org    string `maxminddb:"autonomous_system_organization"`
}

func (r *Reader) Lookup(ip string) (lookup.LocationRecord, bool) {
	p := net.ParseIP(ip)
	if p == nil || p.To4() == nil {
		return lookup.LocationRecord{}, false
	}
	c, err := r.city.City(p)
	if err != nil || (c.Country.IsoCode == "" && c.City.GeoNameID == 0) {
		metrics.LocalLookupsTotal.WithLabelValues("geoip", "miss").Inc()
		return lookup.LocationRecord{}, false
	}
	rec := lookup.LocationRecord{IP: p.String()}
	rec.Location.Country = c.Country.IsoCode
	if len(c.Subdivisions) > 0 {
		rec.Location.Region = c.Subdivisions[0].Names[r.lang]
	}
	rec.Location.City = c.City.Names[r.lang]
	rec.Location.Lat = c.Location.Latitude
	rec.Location.Lng = c.Location.Longitude
	rec.Location.PostalCode = c.Postal.Code
	rec.Location.Timezone = localdb.UTCOffset(c.Location.TimeZone, time.Now())
	if r.asn != nil {
		var a asnRecord
		if err := r.asn.Lookup(p, &a); err == nil {
			rec.ISP = a.Org
		}
	}
	metrics.LocalLookupsTotal.WithLabelValues("geoip", "hit").Inc()
	return rec, true
}
