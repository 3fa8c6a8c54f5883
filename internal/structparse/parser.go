package structparse

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/donutnomad/derefgen/internal/utils"
)

// ParseStruct 解析指定文件中的结构体
// 只解析声明本身：字段保持声明顺序，嵌入字段不展开
// （嵌入字段在本工具中是普通的候选目标，以隐式名参与选择）
func ParseStruct(filename, structName string) (*StructInfo, error) {
	fset := token.NewFileSet()
	node, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("解析文件失败: %w", err)
	}

	// 查找目标结构体
	var targetSpec *ast.TypeSpec
	var targetStruct *ast.StructType
	ast.Inspect(node, func(n ast.Node) bool {
		genDecl, ok := n.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			return true
		}
		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok || typeSpec.Name.Name != structName {
				continue
			}
			if structType, ok := typeSpec.Type.(*ast.StructType); ok {
				targetSpec = typeSpec
				targetStruct = structType
				return false
			}
		}
		return true
	})

	if targetStruct == nil {
		return nil, fmt.Errorf("未找到结构体 %s", structName)
	}

	info := &StructInfo{
		Name:        structName,
		PackageName: node.Name.Name,
		FilePath:    filename,
	}

	// 解析类型参数
	if targetSpec.TypeParams != nil {
		for _, field := range targetSpec.TypeParams.List {
			constraint := ExprString(field.Type)
			for _, name := range field.Names {
				info.TypeParams = append(info.TypeParams, TypeParam{
					Name:       name.Name,
					Constraint: constraint,
				})
			}
		}
	}

	// 解析导入信息，用于填充字段类型的 PkgPath
	imports := extractImports(node)

	// 解析字段
	info.Fields = parseFields(targetStruct.Fields, imports)

	return info, nil
}

// parseFields 解析字段列表，保持声明顺序
func parseFields(fieldList *ast.FieldList, imports map[string]*ImportInfo) []FieldInfo {
	var fields []FieldInfo
	if fieldList == nil {
		return fields
	}

	index := 0
	for _, field := range fieldList.List {
		fieldType := ExprString(field.Type)
		isPointer := false
		if _, ok := field.Type.(*ast.StarExpr); ok {
			isPointer = true
		}

		var fieldTag string
		if field.Tag != nil {
			fieldTag = field.Tag.Value
		}

		pkgPath, pkgAlias := extractPkgPath(fieldType, imports)

		if len(field.Names) == 0 {
			// 嵌入字段，隐式名是类型名的最后一段
			fields = append(fields, FieldInfo{
				Index:      index,
				Name:       utils.BaseTypeName(fieldType),
				Type:       fieldType,
				IsPointer:  isPointer,
				IsEmbedded: true,
				Tag:        fieldTag,
				PkgPath:    pkgPath,
				PkgAlias:   pkgAlias,
			})
			index++
			continue
		}

		for _, name := range field.Names {
			fields = append(fields, FieldInfo{
				Index:     index,
				Name:      name.Name,
				Type:      fieldType,
				IsPointer: isPointer,
				Tag:       fieldTag,
				PkgPath:   pkgPath,
				PkgAlias:  pkgAlias,
			})
			index++
		}
	}

	return fields
}

// ExprString 返回类型表达式的源码表示
func ExprString(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return "*" + ExprString(e.X)
	case *ast.SelectorExpr:
		return ExprString(e.X) + "." + e.Sel.Name
	case *ast.ArrayType:
		if e.Len == nil {
			return "[]" + ExprString(e.Elt)
		}
		return "[" + ExprString(e.Len) + "]" + ExprString(e.Elt)
	case *ast.MapType:
		return "map[" + ExprString(e.Key) + "]" + ExprString(e.Value)
	case *ast.IndexExpr:
		return ExprString(e.X) + "[" + ExprString(e.Index) + "]"
	case *ast.IndexListExpr:
		parts := make([]string, len(e.Indices))
		for i, idx := range e.Indices {
			parts[i] = ExprString(idx)
		}
		return ExprString(e.X) + "[" + strings.Join(parts, ", ") + "]"
	case *ast.ChanType:
		switch e.Dir {
		case ast.RECV:
			return "<-chan " + ExprString(e.Value)
		case ast.SEND:
			return "chan<- " + ExprString(e.Value)
		default:
			return "chan " + ExprString(e.Value)
		}
	case *ast.FuncType:
		return "func" + funcTypeString(e)
	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return "interface{}"
		}
		return "interface{ ... }"
	case *ast.BasicLit:
		return e.Value
	case *ast.Ellipsis:
		return "..." + ExprString(e.Elt)
	default:
		return ""
	}
}

// funcTypeString 渲染函数类型的参数和返回值部分
func funcTypeString(ft *ast.FuncType) string {
	var sb strings.Builder
	sb.WriteString("(")
	if ft.Params != nil {
		for i, p := range ft.Params.List {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(ExprString(p.Type))
		}
	}
	sb.WriteString(")")
	if ft.Results != nil && len(ft.Results.List) > 0 {
		if len(ft.Results.List) == 1 && len(ft.Results.List[0].Names) == 0 {
			sb.WriteString(" " + ExprString(ft.Results.List[0].Type))
		} else {
			sb.WriteString(" (")
			for i, r := range ft.Results.List {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(ExprString(r.Type))
			}
			sb.WriteString(")")
		}
	}
	return sb.String()
}
