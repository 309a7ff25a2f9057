// 包 localdb：离线定位数据源（MaxMind / IP2Location / ip2region），在未配置查询服务密钥时替代远程查询
package localdb

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"ip-tracker/internal/lookup"
)

// Resolver：按 IPv4 文本查询离线库；未命中返回 false
type Resolver interface {
	Lookup(ip string) (lookup.LocationRecord, bool)
}

// UTCOffset：IANA 时区名转换为 "+08:00" 形式，与远程服务的 timezone 字段一致
// 约束：无法识别的时区返回空串
func UTCOffset(tz string, at time.Time) string {
	if tz == "" {
		return ""
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return ""
	}
	_, sec := at.In(loc).Zone()
	sign := '+'
	if sec < 0 {
		sign = '-'
		sec = -sec
	}
	return fmt.Sprintf("%c%02d:%02d", sign, sec/3600, (sec%3600)/60)
}
