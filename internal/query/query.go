// 包 query：把用户输入分类为 IPv4 / 域名 / 无效，并构造查询服务的定位参数
package query

import (
	"net/url"
	"regexp"
	"strings"
)

// Kind：输入分类结果
type Kind int

const (
	Invalid Kind = iota
	IPv4
	Domain
)

func (k Kind) String() string {
	switch k {
	case IPv4:
		return "ipv4"
	case Domain:
		return "domain"
	default:
		return "invalid"
	}
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText：未知取值按 Invalid 处理
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "ipv4":
		*k = IPv4
	case "domain":
		*k = Domain
	default:
		*k = Invalid
	}
	return nil
}

// LookupQuery：一次分类的结果；Value 为去除首尾空白后的原始输入
type LookupQuery struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

const (
	octet = `(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)`
	label = `[a-zA-Z0-9][a-zA-Z0-9-]{1,61}[a-zA-Z0-9](\.[a-zA-Z]{2,})+`
)

// regexp.Regexp 无游标状态，可在多次调用与多协程间复用
var (
	reIPv4         = regexp.MustCompile(`^` + octet + `(\.` + octet + `){3}$`)
	reDomain       = regexp.MustCompile(`^` + label)
	reDomainStrict = regexp.MustCompile(`^` + label + `$`)
)

// Classify：IPv4 优先判定，其次域名；域名规则不锚定结尾，允许尾随内容
func Classify(raw string) LookupQuery {
	return classify(raw, reDomain)
}

// ClassifyStrict：与 Classify 相同，但域名规则首尾均锚定
func ClassifyStrict(raw string) LookupQuery {
	return classify(raw, reDomainStrict)
}

func classify(raw string, domain *regexp.Regexp) LookupQuery {
	v := strings.TrimSpace(raw)
	switch {
	case v == "":
		return LookupQuery{Kind: Invalid}
	case reIPv4.MatchString(v):
		return LookupQuery{Kind: IPv4, Value: v}
	case domain.MatchString(v):
		return LookupQuery{Kind: Domain, Value: v}
	}
	return LookupQuery{Kind: Invalid, Value: v}
}

// Classifier：按配置选择宽松或严格的分类函数
type Classifier func(raw string) LookupQuery

func NewClassifier(strict bool) Classifier {
	if strict {
		return ClassifyStrict
	}
	return Classify
}

// 参数名与查询服务约定一致
const (
	ParamIPAddress = "ipAddress"
	ParamDomain    = "domain"
)

// paramName：无效输入不携带定位参数
func paramName(k Kind) string {
	switch k {
	case IPv4:
		return ParamIPAddress
	case Domain:
		return ParamDomain
	}
	return ""
}

// BuildQueryParam：构造 "ipAddress=<v>" / "domain=<v>"；Invalid 返回空串
// 约束：值经过 QueryEscape，并非逐字拼接；合法地址与域名不受影响，
// 宽松匹配下的尾随字符被转义（"example.com/path" → "domain=example.com%2Fpath"），不会注入额外参数
func BuildQueryParam(q LookupQuery) string {
	name := paramName(q.Kind)
	if name == "" {
		return ""
	}
	return name + "=" + url.QueryEscape(q.Value)
}

// Values：与 BuildQueryParam 等价的 url.Values 形式，供 HTTP 客户端合并其它参数
func Values(q LookupQuery) url.Values {
	out := url.Values{}
	if name := paramName(q.Kind); name != "" {
		out.Set(name, q.Value)
	}
	return out
}
