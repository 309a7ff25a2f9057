package query

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/idna"
)

// ToASCII：国际化域名转换为 punycode，ASCII 输入原样返回
// 约束：转换失败时返回原输入，交由 Classify 判定为 Invalid
func ToASCII(raw string) string {
	v := strings.TrimSpace(raw)
	if isASCII(v) {
		return raw
	}
	out, err := idna.Lookup.ToASCII(v)
	if err != nil {
		return raw
	}
	return strings.ToLower(out)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
