package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iptracker_requests_total",
		Help: "Total number of API requests by route",
	}, []string{"route"})
	ClassifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iptracker_classify_total",
		Help: "Classified inputs by kind",
	}, []string{"kind"})
	LookupRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iptracker_lookup_requests_total",
		Help: "Total lookup service requests by query kind",
	}, []string{"kind"})
	LookupSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iptracker_lookup_success_total",
		Help: "Total lookup service successes",
	})
	LookupFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iptracker_lookup_fail_total",
		Help: "Total lookup service failures by reason",
	}, []string{"reason"})
	LookupDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "iptracker_lookup_duration_ms",
		Help:    "Lookup service call duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	})
	LocalLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "iptracker_local_lookups_total",
		Help: "Offline database lookups by resolver and result",
	}, []string{"resolver", "result"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iptracker_cache_hits_total",
		Help: "Total redis cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iptracker_cache_misses_total",
		Help: "Total redis cache misses",
	})
	TrackerAppliedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iptracker_tracker_applied_total",
		Help: "Lookup results written to the current record slot",
	})
	TrackerStaleTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iptracker_tracker_stale_total",
		Help: "Lookup results dropped because a newer submission exists",
	})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "iptracker_rate_limited_total",
		Help: "Requests rejected by the token bucket",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(ClassifyTotal)
	prometheus.MustRegister(LookupRequestsTotal)
	prometheus.MustRegister(LookupSuccessTotal)
	prometheus.MustRegister(LookupFailTotal)
	prometheus.MustRegister(LookupDurationMs)
	prometheus.MustRegister(LocalLookupsTotal)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(TrackerAppliedTotal)
	prometheus.MustRegister(TrackerStaleTotal)
	prometheus.MustRegister(RateLimitedTotal)
}

// 文档注释：返回 Prometheus 指标监听器
func Handler() http.Handler { return promhttp.Handler() }
