// 包 lookup：地理定位查询服务客户端（geo.ipify.org 兼容接口）
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ip-tracker/internal/logger"
	"ip-tracker/internal/metrics"
	"ip-tracker/internal/query"
)

const DefaultBaseURL = "https://geo.ipify.org/api/v2/country,city"

// 响应体上限，防止异常服务端返回超大载荷
const maxBodyBytes = 1 << 20

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient：httpClient 为空时使用 5s 超时的默认客户端
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "?&"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// RequestURL：GET <base>?apiKey=<key>&[ipAddress=<v>|domain=<v>]
func (c *Client) RequestURL(q query.LookupQuery) string {
	v := query.Values(q)
	v.Set("apiKey", c.apiKey)
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + v.Encode()
}

// 响应载荷同时兼容成功记录与错误结构
type payload struct {
	LocationRecord
	Code     int    `json:"code"`
	Messages string `json:"messages"`
}

// Lookup：Invalid 查询不携带定位参数，由服务端按请求来源地址定位
// 返回：网络/解码失败包装 ErrRequestFailed；仅解码出的错误载荷返回 *RejectedError
func (c *Client) Lookup(ctx context.Context, q query.LookupQuery) (*LocationRecord, error) {
	if c.apiKey == "" {
		return nil, ErrMissingKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.RequestURL(q), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("accept", "application/json")

	t0 := time.Now()
	metrics.LookupRequestsTotal.WithLabelValues(q.Kind.String()).Inc()
	logger.L().Debug("lookup_req", "kind", q.Kind.String(), "value", q.Value)
	defer func() {
		metrics.LookupDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	}()

	resp, err := c.http.Do(req)
	if err != nil {
		logger.L().Error("lookup_http_error", "err", err)
		metrics.LookupFailTotal.WithLabelValues("request").Inc()
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	var p payload
	// 非 JSON 响应（如网关错误页）一律视为请求失败，不论状态码
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&p); err != nil {
		logger.L().Error("lookup_decode_error", "status", resp.StatusCode, "err", err)
		metrics.LookupFailTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: status %d: decode: %v", ErrRequestFailed, resp.StatusCode, err)
	}
	if p.Code != 0 || resp.StatusCode != http.StatusOK {
		code := p.Code
		if code == 0 {
			code = resp.StatusCode
		}
		logger.L().Debug("lookup_rejected", "kind", q.Kind.String(), "value", q.Value, "code", code, "messages", p.Messages)
		metrics.LookupFailTotal.WithLabelValues("rejected").Inc()
		return nil, &RejectedError{Code: code, Messages: p.Messages}
	}

	rec := p.LocationRecord
	logger.L().Debug("lookup_resp", "ip", rec.IP, "city", rec.Location.City, "region", rec.Location.Region, "isp", rec.ISP, "duration_ms", time.Since(t0).Milliseconds())
	metrics.LookupSuccessTotal.Inc()
	return &rec, nil
}
