package derefgen

import (
	"errors"
	"fmt"

	"github.com/donutnomad/derefgen/internal/structparse"
	"github.com/samber/lo"
)

// TargetTag 标记解引用目标字段的标签 key
// 用法: `deref:"target"`
const TargetTag = "deref"

// targetTagValue 目标字段的标签值
const targetTagValue = "target"

// 目标字段选择失败的错误分类
var (
	// ErrNoFields 结构体没有任何字段
	ErrNoFields = errors.New("无法为无字段的结构体生成解引用方法")

	// ErrAmbiguousTarget 多字段结构体没有字段标记 deref:"target"
	ErrAmbiguousTarget = errors.New("目标字段不明确，请用 deref:\"target\" 标记一个字段")

	// ErrMultipleTargets 多个字段标记了 deref:"target"
	ErrMultipleTargets = errors.New("多个字段标记了 deref:\"target\"，只允许一个")
)

// ResolveError 携带声明位置信息的选择失败错误
type ResolveError struct {
	StructName string
	FilePath   string
	Err        error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("结构体 %s (%s): %v", e.StructName, e.FilePath, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// IsTargetField 检查字段是否携带目标标记
func IsTargetField(f *structparse.FieldInfo) bool {
	value, ok := f.TagValue(TargetTag)
	return ok && value == targetTagValue
}

// ResolveTarget 按选择规则确定解引用目标字段
// 规则：
//  1. 只有一个字段时直接选中，标记可有可无
//  2. 两个及以上字段时，必须恰好一个字段携带 deref:"target"
//  3. 没有字段时无条件失败
//
// 纯函数：相同输入总是得到相同的选择结果
func ResolveTarget(info *structparse.StructInfo) (*structparse.FieldInfo, error) {
	fields := info.Fields

	if len(fields) == 0 {
		return nil, resolveError(info, ErrNoFields)
	}

	if len(fields) == 1 {
		return &fields[0], nil
	}

	marked := lo.Filter(fields, func(f structparse.FieldInfo, _ int) bool {
		return IsTargetField(&f)
	})

	switch len(marked) {
	case 1:
		return &marked[0], nil
	case 0:
		return nil, resolveError(info, ErrAmbiguousTarget)
	default:
		return nil, resolveError(info, ErrMultipleTargets)
	}
}

func resolveError(info *structparse.StructInfo, err error) error {
	return &ResolveError{
		StructName: info.Name,
		FilePath:   info.FilePath,
		Err:        err,
	}
}
