package cache

import (
	"regexp"
	"strings"
)

// globToRegexp 把 glob 模式翻译为正则：* 匹配任意字符序列，整 key 匹配
// （与 Redis KEYS 的匹配语义对齐，本地后端用它兜底）。
//
// 模式非法属于调用方 bug，错误向上传播而不吞掉。
func globToRegexp(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("^" + strings.ReplaceAll(pattern, "*", ".*") + "$")
}
