package wrappers

import (
	"time"

	stdstrings "strings"
)

// StringWithCount 带计数的字符串包装
type StringWithCount struct {
	Inner string `deref:"target"`
	Count uint
}

// StringWrapper 单字段包装
type StringWrapper struct {
	Value string
}

// PtrWrapper 指针字段包装
type PtrWrapper struct {
	Inner *time.Time `deref:"target"`
	Note  string
}

// Box 泛型包装
type Box[T any] struct {
	Item T
}

// Pair 双类型参数的泛型结构体
type Pair[K comparable, V any] struct {
	Key   K `deref:"target"`
	Value V
}

// EmbeddedWrapper 嵌入字段包装
type EmbeddedWrapper struct {
	stdstrings.Builder `deref:"target"`
	Label              string
}
