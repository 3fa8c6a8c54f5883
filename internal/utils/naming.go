package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReceiverName 根据类型名生成接收器变量名，取首个字符小写
// 按 rune 取首字符，类型名允许非 ASCII 字母
func ReceiverName(typeName string) string {
	if typeName == "" {
		return "x"
	}
	r, _ := utf8.DecodeRuneInString(typeName)
	return string(unicode.ToLower(r))
}

// BaseTypeName 去掉类型修饰符，返回裸类型名
// "*pkg.User" -> "User", "[]Item" -> "Item", "List[T]" -> "List"
func BaseTypeName(typeName string) string {
	s := typeName
	for strings.HasPrefix(s, "*") || strings.HasPrefix(s, "[]") {
		s = strings.TrimPrefix(s, "*")
		s = strings.TrimPrefix(s, "[]")
	}
	if idx := strings.LastIndex(s, "."); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.Index(s, "["); idx >= 0 {
		s = s[:idx]
	}
	return s
}
