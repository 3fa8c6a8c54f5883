package derefgen

import (
	"fmt"

	"github.com/donutnomad/derefgen/internal/structparse"
	"github.com/donutnomad/derefgen/internal/utils"
	"github.com/donutnomad/gg"
)

// accessor 单个访问方法的描述
type accessor struct {
	MethodName string // Deref 或 DerefMut
	ReturnType string // 返回类型
	ReturnExpr string // return 表达式
}

// buildAccessors 为选中的目标字段构建访问方法描述
// 字段本身是指针类型时直接转发，避免产生二级指针
func buildAccessors(info *structparse.StructInfo, field *structparse.FieldInfo, withMut bool) []accessor {
	recv := utils.ReceiverName(info.Name)

	returnType := "*" + field.Type
	returnExpr := "&" + recv + "." + field.Name
	if field.IsPointer {
		// 转发：字段已经是指针，原样返回
		returnType = field.Type
		returnExpr = recv + "." + field.Name
	}

	accessors := []accessor{
		{MethodName: "Deref", ReturnType: returnType, ReturnExpr: returnExpr},
	}
	if withMut {
		accessors = append(accessors, accessor{
			MethodName: "DerefMut", ReturnType: returnType, ReturnExpr: returnExpr,
		})
	}
	return accessors
}

// generateAccessorMethods 生成目标字段的访问方法
func generateAccessorMethods(gen *gg.Generator, info *structparse.StructInfo, field *structparse.FieldInfo, withMut bool) {
	// 字段类型来自其他包时补充 import
	if field.PkgPath != "" {
		if field.PkgAlias != "" {
			gen.PAlias(field.PkgPath, field.PkgAlias)
		} else {
			gen.P(field.PkgPath)
		}
	}

	recv := utils.ReceiverName(info.Name)
	recvType := "*" + info.ReceiverType()

	for i, acc := range buildAccessors(info, field, withMut) {
		if i > 0 {
			gen.Body().AddLine()
		}
		gen.Body().AddString(accessorComment(acc.MethodName, info.Name, field.Name))
		gen.Body().NewFunction(acc.MethodName).
			WithReceiver(recv, recvType).
			AddResult("", acc.ReturnType).
			AddBody(gg.Return(gg.S(acc.ReturnExpr)))
	}
}

// accessorComment 访问方法的文档注释
func accessorComment(methodName, structName, fieldName string) string {
	usage := "约定只读"
	if methodName == "DerefMut" {
		usage = "用于修改"
	}
	return fmt.Sprintf("// %s 返回 %s 内部 %s 字段的指针，%s", methodName, structName, fieldName, usage)
}
