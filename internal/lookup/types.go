package lookup

import (
	"context"
	"errors"
	"fmt"

	"ip-tracker/internal/query"
)

// 文档注释：定位记录（对外）
// 约束：字段与查询服务的 JSON 结构对齐；Timezone 为 UTC 偏移（如 "-07:00"）
type LocationRecord struct {
	IP       string   `json:"ip"`
	ISP      string   `json:"isp"`
	Location Location `json:"location"`
}

type Location struct {
	Country    string  `json:"country,omitempty"`
	Region     string  `json:"region"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	PostalCode string  `json:"postalCode,omitempty"`
	Timezone   string  `json:"timezone"`
}

// Service：按分类结果查询定位记录
type Service interface {
	Lookup(ctx context.Context, q query.LookupQuery) (*LocationRecord, error)
}

var (
	ErrMissingKey    = errors.New("lookup: missing api key")
	ErrRequestFailed = errors.New("lookup: request failed")
	ErrRejected      = errors.New("lookup: rejected")
)

// RejectedError：查询服务返回的错误载荷，code 400 表示地址或域名无效
type RejectedError struct {
	Code     int    `json:"code"`
	Messages string `json:"messages"`
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("lookup: rejected with code %d: %s", e.Code, e.Messages)
}

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

// IsInvalidParameter：服务判定输入无效（code 400）
func IsInvalidParameter(err error) bool {
	var re *RejectedError
	return errors.As(err, &re) && re.Code == 400
}
