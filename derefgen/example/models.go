package example

// StringWithCount 带访问计数的字符串包装
// 多字段结构体需要用 deref:"target" 标记目标字段
//
// @Deref
type StringWithCount struct {
	Inner string `deref:"target"`
	Count uint
}

// StringWrapper 单字段包装，无需标记
//
// @Deref
type StringWrapper struct {
	Value string
}

// CountWrapper 单字段包装，冗余标记也被接受
//
// @Deref
type CountWrapper struct {
	Count uint `deref:"target"`
}

// ReadOnlyBuffer 只生成只读访问方法
//
// @Deref(mut=false)
type ReadOnlyBuffer struct {
	buf  []byte `deref:"target"`
	name string
}
