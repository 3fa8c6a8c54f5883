package derefgen

import (
	"errors"
	"testing"

	"github.com/donutnomad/derefgen/internal/structparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStruct(name string, fields ...structparse.FieldInfo) *structparse.StructInfo {
	for i := range fields {
		fields[i].Index = i
	}
	return &structparse.StructInfo{
		Name:        name,
		PackageName: "models",
		FilePath:    "models/models.go",
		Fields:      fields,
	}
}

func TestResolveTarget_SingleField(t *testing.T) {
	// 单字段结构体不需要标记
	info := makeStruct("StringWrapper",
		structparse.FieldInfo{Name: "Value", Type: "string"},
	)

	field, err := ResolveTarget(info)
	require.NoError(t, err)
	assert.Equal(t, "Value", field.Name)
}

func TestResolveTarget_SingleFieldWithRedundantMark(t *testing.T) {
	// 单字段上的冗余标记也被接受
	info := makeStruct("CountWrapper",
		structparse.FieldInfo{Name: "Count", Type: "uint", Tag: "`deref:\"target\"`"},
	)

	field, err := ResolveTarget(info)
	require.NoError(t, err)
	assert.Equal(t, "Count", field.Name)
}

func TestResolveTarget_MarkedField(t *testing.T) {
	info := makeStruct("StringWithCount",
		structparse.FieldInfo{Name: "Inner", Type: "string", Tag: "`deref:\"target\"`"},
		structparse.FieldInfo{Name: "Count", Type: "uint"},
	)

	field, err := ResolveTarget(info)
	require.NoError(t, err)
	assert.Equal(t, "Inner", field.Name)
}

func TestResolveTarget_MarkedSecondField(t *testing.T) {
	// 标记的位置不限于第一个字段
	info := makeStruct("CountWithString",
		structparse.FieldInfo{Name: "Label", Type: "string"},
		structparse.FieldInfo{Name: "Count", Type: "uint", Tag: "`deref:\"target\"`"},
	)

	field, err := ResolveTarget(info)
	require.NoError(t, err)
	assert.Equal(t, "Count", field.Name)
}

func TestResolveTarget_NoFields(t *testing.T) {
	info := makeStruct("Empty")

	_, err := ResolveTarget(info)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFields))

	var re *ResolveError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Empty", re.StructName)
	assert.Equal(t, "models/models.go", re.FilePath)
}

func TestResolveTarget_Unmarked(t *testing.T) {
	// 多字段且无标记：目标不明确
	info := makeStruct("Unmarked",
		structparse.FieldInfo{Name: "A", Type: "string"},
		structparse.FieldInfo{Name: "B", Type: "uint"},
	)

	_, err := ResolveTarget(info)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguousTarget))
}

func TestResolveTarget_MultipleMarks(t *testing.T) {
	info := makeStruct("DoubleMarked",
		structparse.FieldInfo{Name: "A", Type: "string", Tag: "`deref:\"target\"`"},
		structparse.FieldInfo{Name: "B", Type: "uint", Tag: "`deref:\"target\"`"},
	)

	_, err := ResolveTarget(info)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMultipleTargets))
}

func TestResolveTarget_IgnoresOtherTags(t *testing.T) {
	// 其他标签和错误的标签值不算标记
	info := makeStruct("OtherTags",
		structparse.FieldInfo{Name: "A", Type: "string", Tag: "`json:\"a\" deref:\"source\"`"},
		structparse.FieldInfo{Name: "B", Type: "uint", Tag: "`deref:\"target\"`"},
	)

	field, err := ResolveTarget(info)
	require.NoError(t, err)
	assert.Equal(t, "B", field.Name)
}

func TestResolveTarget_Deterministic(t *testing.T) {
	// 相同输入多次调用，选择结果一致
	info := makeStruct("StringWithCount",
		structparse.FieldInfo{Name: "Inner", Type: "string", Tag: "`deref:\"target\"`"},
		structparse.FieldInfo{Name: "Count", Type: "uint"},
	)

	first, err := ResolveTarget(info)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := ResolveTarget(info)
		require.NoError(t, err)
		assert.Equal(t, first.Name, got.Name)
	}
}

func TestIsTargetField(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want bool
	}{
		{"标准标记", "`deref:\"target\"`", true},
		{"无标签", "", false},
		{"其他标签", "`json:\"inner\"`", false},
		{"错误的值", "`deref:\"source\"`", false},
		{"混合标签", "`json:\"inner\" deref:\"target\"`", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &structparse.FieldInfo{Name: "Inner", Type: "string", Tag: tt.tag}
			assert.Equal(t, tt.want, IsTargetField(f))
		})
	}
}
