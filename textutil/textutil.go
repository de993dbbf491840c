// Package textutil 提供修剪空白与按位模板格式化的小工具。
package textutil

import (
	"fmt"
	"strings"
	"unicode"
)

// Ltrim 去掉开头的空白字符
func Ltrim(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// Rtrim 去掉末尾的空白字符
func Rtrim(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// LRtrim 去掉两端的空白字符
func LRtrim(s string) string {
	return strings.TrimFunc(s, unicode.IsSpace)
}

// Format 按位展开模板里的 {0} {1} … 占位符。
// 索引越界或花括号内不是数字时原样保留。
func Format(tmpl string, args ...any) string {
	var b strings.Builder
	b.Grow(len(tmpl))
	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		if c != '{' {
			b.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		idx := 0
		digits := 0
		for j < len(tmpl) && tmpl[j] >= '0' && tmpl[j] <= '9' {
			idx = idx*10 + int(tmpl[j]-'0')
			digits++
			j++
		}
		if digits == 0 || j >= len(tmpl) || tmpl[j] != '}' || idx >= len(args) {
			b.WriteByte(c)
			i++
			continue
		}
		b.WriteString(fmt.Sprint(args[idx]))
		i = j + 1
	}
	return b.String()
}
