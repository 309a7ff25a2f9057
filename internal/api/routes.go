// 包 api：集中注册 HTTP API 路由，入口挂载到 API_BASE 前缀
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"ip-tracker/internal/logger"
	"ip-tracker/internal/lookup"
	"ip-tracker/internal/metrics"
	"ip-tracker/internal/query"
	"ip-tracker/internal/store"
	"ip-tracker/internal/tracker"
)

type Deps struct {
	Lookup   lookup.Service
	Tracker  *tracker.Tracker
	Stats    *store.Store
	Classify query.Classifier
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// BuildRoutes：独立 ServeMux，便于在主入口挂载到前缀
func BuildRoutes(d Deps) *http.ServeMux {
	if d.Classify == nil {
		d.Classify = query.Classify
	}
	h := &handler{Deps: d}

	mux := http.NewServeMux()
	mux.HandleFunc("/classify", h.classify)
	mux.HandleFunc("/lookup", h.lookup)
	mux.HandleFunc("/track", h.track)
	mux.HandleFunc("/current", h.current)
	mux.HandleFunc("/stats", h.stats)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

type handler struct {
	Deps
}

// resolveInput：国际化域名先转 punycode 再分类
func (h *handler) resolveInput(r *http.Request) query.LookupQuery {
	return h.Classify(query.ToASCII(r.FormValue("q")))
}

// withVisitorFallback：Invalid 输入改用访问者 IPv4；仍无效则不带定位参数
func (h *handler) withVisitorFallback(r *http.Request, q query.LookupQuery) query.LookupQuery {
	if q.Kind != query.Invalid {
		return q
	}
	if v := query.Classify(getVisitorIP(r)); v.Kind == query.IPv4 {
		logger.L().Debug("lookup_visitor_fallback", "input", q.Value, "visitor", v.Value)
		return v
	}
	return q
}

func (h *handler) classify(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("classify").Inc()
	q := h.resolveInput(r)
	metrics.ClassifyTotal.WithLabelValues(q.Kind.String()).Inc()
	writeJSON(w, http.StatusOK, classifyResult{Kind: q.Kind, Value: q.Value, Param: query.BuildQueryParam(q)})
}

func (h *handler) lookup(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("lookup").Inc()
	ctx := r.Context()
	q := h.resolveInput(r)
	metrics.ClassifyTotal.WithLabelValues(q.Kind.String()).Inc()
	if h.Stats != nil {
		if err := h.Stats.IncrStats(ctx, q.Kind); err != nil {
			logger.L().Error("stats_incr_error", "err", err)
		}
	}

	rec, err := h.Lookup.Lookup(ctx, h.withVisitorFallback(r, q))
	if err != nil {
		var re *lookup.RejectedError
		if errors.As(err, &re) && re.Code == http.StatusBadRequest {
			writeJSON(w, http.StatusBadRequest, errorResult{Code: re.Code, Messages: re.Messages})
			return
		}
		logger.L().Error("lookup_error", "kind", q.Kind.String(), "err", err)
		writeJSON(w, http.StatusBadGateway, errorResult{Messages: noData})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// track：提交到共享 tracker 后立即返回，查询在后台完成
func (h *handler) track(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("track").Inc()
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.Tracker == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	q := h.withVisitorFallback(r, h.resolveInput(r))
	tk := h.Tracker.SubmitQuery(q)
	h.Tracker.Go(r.Context(), tk)
	writeJSON(w, http.StatusAccepted, tk)
}

func (h *handler) current(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("current").Inc()
	if h.Tracker == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s := h.Tracker.Current()
	if s == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	metrics.RequestsTotal.WithLabelValues("stats").Inc()
	if h.Stats == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	t, err := h.Stats.GetTotals(r.Context())
	if err != nil {
		logger.L().Error("stats_error", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
