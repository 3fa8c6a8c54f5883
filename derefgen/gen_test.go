package derefgen

import (
	"strings"
	"testing"

	"github.com/donutnomad/derefgen/internal/structparse"
	"github.com/donutnomad/gg"
	"golang.org/x/tools/imports"
)

// formatGenerated 按写盘前的同一套流程格式化生成结果，
// 便于直接对格式化后的方法签名做断言
func formatGenerated(t *testing.T, gen *gg.Generator) string {
	t.Helper()
	formatted, err := imports.Process("generated.go", gen.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		t.Fatalf("格式化生成结果失败: %v\n原始内容:\n%s", err, gen.String())
	}
	return string(formatted)
}

func TestBuildAccessors_ValueField(t *testing.T) {
	info := makeStruct("StringWithCount",
		structparse.FieldInfo{Name: "Inner", Type: "string", Tag: "`deref:\"target\"`"},
		structparse.FieldInfo{Name: "Count", Type: "uint"},
	)

	accessors := buildAccessors(info, &info.Fields[0], true)

	if len(accessors) != 2 {
		t.Fatalf("buildAccessors() got %d accessors, want 2", len(accessors))
	}
	if accessors[0].MethodName != "Deref" || accessors[1].MethodName != "DerefMut" {
		t.Errorf("方法名错误: %s, %s", accessors[0].MethodName, accessors[1].MethodName)
	}
	for _, acc := range accessors {
		if acc.ReturnType != "*string" {
			t.Errorf("%s 返回类型 = %q, want *string", acc.MethodName, acc.ReturnType)
		}
		if acc.ReturnExpr != "&s.Inner" {
			t.Errorf("%s 返回表达式 = %q, want &s.Inner", acc.MethodName, acc.ReturnExpr)
		}
	}
}

// TestBuildAccessors_PointerField 指针字段直接转发，不产生二级指针
func TestBuildAccessors_PointerField(t *testing.T) {
	info := makeStruct("PtrWrapper",
		structparse.FieldInfo{Name: "Inner", Type: "*time.Time", IsPointer: true, Tag: "`deref:\"target\"`"},
		structparse.FieldInfo{Name: "Note", Type: "string"},
	)

	accessors := buildAccessors(info, &info.Fields[0], true)

	for _, acc := range accessors {
		if acc.ReturnType != "*time.Time" {
			t.Errorf("%s 返回类型 = %q, want *time.Time", acc.MethodName, acc.ReturnType)
		}
		if acc.ReturnExpr != "p.Inner" {
			t.Errorf("%s 返回表达式 = %q, want p.Inner", acc.MethodName, acc.ReturnExpr)
		}
	}
}

func TestBuildAccessors_WithoutMut(t *testing.T) {
	info := makeStruct("StringWrapper",
		structparse.FieldInfo{Name: "Value", Type: "string"},
	)

	accessors := buildAccessors(info, &info.Fields[0], false)

	if len(accessors) != 1 {
		t.Fatalf("buildAccessors() got %d accessors, want 1", len(accessors))
	}
	if accessors[0].MethodName != "Deref" {
		t.Errorf("方法名 = %q, want Deref", accessors[0].MethodName)
	}
}

func TestGenerateAccessorMethods(t *testing.T) {
	info := makeStruct("StringWithCount",
		structparse.FieldInfo{Name: "Inner", Type: "string", Tag: "`deref:\"target\"`"},
		structparse.FieldInfo{Name: "Count", Type: "uint"},
	)

	gen := gg.New()
	gen.SetPackage("models")
	generateAccessorMethods(gen, info, &info.Fields[0], true)

	code := formatGenerated(t, gen)

	if !strings.Contains(code, "func (s *StringWithCount) Deref()") {
		t.Errorf("生成的代码应包含 Deref 方法，实际代码:\n%s", code)
	}
	if !strings.Contains(code, "func (s *StringWithCount) DerefMut()") {
		t.Errorf("生成的代码应包含 DerefMut 方法，实际代码:\n%s", code)
	}
	if !strings.Contains(code, "return &s.Inner") {
		t.Errorf("生成的代码应包含 return &s.Inner，实际代码:\n%s", code)
	}
	if strings.Contains(code, "s.Count") {
		t.Errorf("生成的代码不应访问非目标字段 Count，实际代码:\n%s", code)
	}
}

// TestGenerateAccessorMethods_Generics 泛型结构体的接收者带类型参数
func TestGenerateAccessorMethods_Generics(t *testing.T) {
	info := &structparse.StructInfo{
		Name:        "Box",
		PackageName: "models",
		FilePath:    "models/box.go",
		TypeParams: []structparse.TypeParam{
			{Name: "T", Constraint: "any"},
		},
		Fields: []structparse.FieldInfo{
			{Index: 0, Name: "Item", Type: "T"},
		},
	}

	gen := gg.New()
	gen.SetPackage("models")
	generateAccessorMethods(gen, info, &info.Fields[0], true)

	code := formatGenerated(t, gen)

	if !strings.Contains(code, "func (b *Box[T]) Deref()") {
		t.Errorf("泛型接收者应为 *Box[T]，实际代码:\n%s", code)
	}
	if !strings.Contains(code, "return &b.Item") {
		t.Errorf("生成的代码应包含 return &b.Item，实际代码:\n%s", code)
	}
}

// TestGenerateAccessorMethods_CrossPackageImport 字段类型来自其他包时补充 import
func TestGenerateAccessorMethods_CrossPackageImport(t *testing.T) {
	info := makeStruct("PtrWrapper",
		structparse.FieldInfo{Name: "Inner", Type: "*time.Time", IsPointer: true, PkgPath: "time", Tag: "`deref:\"target\"`"},
		structparse.FieldInfo{Name: "Note", Type: "string"},
	)

	gen := gg.New()
	gen.SetPackage("models")
	generateAccessorMethods(gen, info, &info.Fields[0], true)

	code := formatGenerated(t, gen)

	if !strings.Contains(code, `"time"`) {
		t.Errorf("生成的代码应导入 time 包，实际代码:\n%s", code)
	}
	if !strings.Contains(code, "return p.Inner") {
		t.Errorf("指针字段应直接返回，实际代码:\n%s", code)
	}
	if strings.Contains(code, "&p.Inner") {
		t.Errorf("指针字段不应取地址，实际代码:\n%s", code)
	}
}

func TestAccessorComment(t *testing.T) {
	got := accessorComment("Deref", "StringWrapper", "Value")
	if !strings.Contains(got, "Deref") || !strings.Contains(got, "只读") {
		t.Errorf("accessorComment() = %q", got)
	}

	got = accessorComment("DerefMut", "StringWrapper", "Value")
	if !strings.Contains(got, "DerefMut") || !strings.Contains(got, "修改") {
		t.Errorf("accessorComment() = %q", got)
	}
}
