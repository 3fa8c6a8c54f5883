package structparse

import (
	"reflect"
	"strings"
)

// ImportInfo 导入信息
type ImportInfo struct {
	Alias      string // 显式别名（如果有）
	ImportPath string // 完整导入路径
}

// TypeParam 表示结构体的类型参数
type TypeParam struct {
	Name       string // 参数名，如 T
	Constraint string // 约束，如 any、comparable
}

// FieldInfo 表示结构体字段信息
type FieldInfo struct {
	Index      int    // 字段在声明中的位置
	Name       string // 字段名，嵌入字段为其隐式名
	Type       string // 字段类型的源码表示
	IsPointer  bool   // 声明类型是否是指针
	IsEmbedded bool   // 是否是嵌入字段
	Tag        string // 原始标签（含反引号），可能为空
	PkgPath    string // 类型所在包的导入路径，本包或内置类型为空
	PkgAlias   string // 包在源文件中的显式别名（如果有）
}

// TagValue 返回标签中指定 key 的值，没有该 key 时返回空串
func (f *FieldInfo) TagValue(key string) (string, bool) {
	tag := strings.Trim(f.Tag, "`")
	return reflect.StructTag(tag).Lookup(key)
}

// StructInfo 表示结构体信息
type StructInfo struct {
	Name        string      // 结构体名称
	PackageName string      // 包名
	FilePath    string      // 结构体所在文件路径
	TypeParams  []TypeParam // 类型参数列表，非泛型结构体为空
	Fields      []FieldInfo // 字段列表，保持声明顺序
}

// ReceiverType 返回方法接收器的类型表示
// 泛型结构体带上类型参数，如 Box[T]
func (s *StructInfo) ReceiverType() string {
	if len(s.TypeParams) == 0 {
		return s.Name
	}
	names := make([]string, len(s.TypeParams))
	for i, tp := range s.TypeParams {
		names[i] = tp.Name
	}
	return s.Name + "[" + strings.Join(names, ", ") + "]"
}
