package derefgen

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/donutnomad/derefgen/internal/structparse"
	"github.com/donutnomad/derefgen/plugin"
	"github.com/donutnomad/gg"
)

const generatorName = "derefgen"

// annotationName 结构体通过文档注释中的 @Deref 接入生成
const annotationName = "Deref"

// DerefParams 定义 Deref 注解支持的参数
type DerefParams struct {
	Mut string `param:"name=mut,required=false,default=true,description=是否生成 DerefMut 方法: true|false"`
}

// DerefGenerator 实现 plugin.Generator 接口
type DerefGenerator struct {
	plugin.BaseGenerator
}

func NewDerefGenerator() *DerefGenerator {
	gen := &DerefGenerator{
		BaseGenerator: *plugin.NewBaseGeneratorWithParamsStruct(
			generatorName,
			[]string{annotationName},
			[]plugin.TargetKind{plugin.TargetStruct},
			DerefParams{}, // 传入参数结构体的零值实例
		),
	}
	gen.SetPriority(10)
	return gen
}

// targetInfo 存储单个目标的处理信息
type targetInfo struct {
	info    *structparse.StructInfo
	field   *structparse.FieldInfo
	withMut bool
}

// Generate 执行代码生成
// 每个目标结构体独立处理：选择目标字段失败只影响该结构体，
// 不影响同一次运行中的其他结构体
func (g *DerefGenerator) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	result := plugin.NewGenerateResult()

	if len(ctx.Targets) == 0 {
		return result, nil
	}

	// 按输出文件分组处理
	// key: 输出路径, value: 待处理的目标列表
	fileTargets := make(map[string][]*targetInfo)

	for _, at := range ctx.Targets {
		ann := plugin.GetAnnotation(at.Annotations, annotationName)
		if ann == nil {
			continue
		}

		// 从 ParsedParams 获取解析好的参数
		var params DerefParams
		if at.ParsedParams != nil {
			var ok bool
			params, ok = at.ParsedParams.(DerefParams)
			if !ok {
				result.AddError(fmt.Errorf("ParsedParams 类型断言失败: %T", at.ParsedParams))
				continue
			}
		}

		if ctx.Verbose {
			fmt.Printf("[derefgen] %s", spew.Sdump(params))
		}

		// 解析结构体声明
		structInfo, err := structparse.ParseStruct(at.Target.FilePath, at.Target.Name)
		if err != nil {
			result.AddError(fmt.Errorf("解析结构体 %s 失败: %w", at.Target.Name, err))
			continue
		}

		// 选择目标字段，失败即为该声明的诊断错误，不产生任何输出
		field, err := ResolveTarget(structInfo)
		if err != nil {
			result.AddError(err)
			continue
		}

		// 计算输出路径
		// 优先使用注解指定的 output，否则使用默认文件 $FILE_deref.go
		pkgConfig := ctx.GetPackageConfig(filepath.Dir(at.Target.FilePath))
		outputPath := plugin.GetOutputPath(at.Target, ann, "$FILE_deref.go", pkgConfig, g.Name(), ctx.DefaultOutput)

		fileTargets[outputPath] = append(fileTargets[outputPath], &targetInfo{
			info:    structInfo,
			field:   field,
			withMut: plugin.ParseParamBool(params.Mut),
		})

		if ctx.Verbose {
			fmt.Printf("[derefgen] 处理结构体 %s -> %s (目标字段: %s)\n", at.Target.Name, outputPath, field.Name)
		}
	}

	// 为每个输出文件生成 gg 定义
	// 按输出路径排序，确保生成顺序一致
	outputPaths := make([]string, 0, len(fileTargets))
	for outputPath := range fileTargets {
		outputPaths = append(outputPaths, outputPath)
	}
	slices.Sort(outputPaths)

	for _, outputPath := range outputPaths {
		targets := fileTargets[outputPath]
		// 按结构体名称排序，确保同一文件中不同结构体的顺序一致
		slices.SortFunc(targets, func(a, b *targetInfo) int {
			return strings.Compare(a.info.Name, b.info.Name)
		})

		gen, err := g.generateDefinition(targets)
		if err != nil {
			result.AddError(fmt.Errorf("生成 %s 失败: %w", outputPath, err))
			continue
		}
		result.AddDefinition(outputPath, gen)
	}

	return result, nil
}

// generateDefinition 为一组目标生成 gg 定义
func (g *DerefGenerator) generateDefinition(targets []*targetInfo) (*gg.Generator, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("没有目标需要生成")
	}

	gen := gg.New()
	gen.SetPackage(targets[0].info.PackageName)

	for i, t := range targets {
		if i > 0 {
			gen.Body().AddLine()
		}
		generateAccessorMethods(gen, t.info, t.field, t.withMut)
	}

	return gen, nil
}
