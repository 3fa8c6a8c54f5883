package plugin

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

// ParseParamsFromStruct 从结构体的tag解析参数定义
// 支持的tag: name, required, default, description
//
// 示例:
//
//	type Params struct {
//	    Mut    string `param:"name=mut,required=false,default=true,description=是否生成可变访问方法"`
//	    Output string `param:"name=output,required=false,default=,description=输出文件路径"`
//	}
//
//	params := plugin.ParseParamsFromStruct(Params{})
func ParseParamsFromStruct(v any) []ParamDef {
	typ := reflect.TypeOf(v)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var params []ParamDef
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("param")
		if tag == "" {
			continue
		}
		paramDef := parseParamTag(tag)
		if paramDef.Name != "" {
			params = append(params, paramDef)
		}
	}

	return params
}

// parseParamTag 解析 param tag 字符串
// 格式: name=xxx,required=true,default=xxx,description=xxx
func parseParamTag(tag string) ParamDef {
	var param ParamDef

	for key, value := range splitTag(tag) {
		switch key {
		case "name":
			param.Name = value
		case "required":
			param.Required = cast.ToBool(value)
		case "default":
			param.Default = value
		case "description":
			param.Description = value
		}
	}

	return param
}

// splitTag 分割tag字符串为键值对
// 格式: key1=value1,key2=value2,... 支持 \, 与 \= 转义
func splitTag(tag string) map[string]string {
	result := make(map[string]string)

	var key, value string
	var inKey = true
	var escaped = false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]

		if escaped {
			if inKey {
				key += string(ch)
			} else {
				value += string(ch)
			}
			escaped = false
			continue
		}

		if ch == '\\' {
			escaped = true
			continue
		}

		if ch == '=' && inKey {
			inKey = false
			continue
		}

		if ch == ',' {
			if key != "" {
				result[key] = value
			}
			key = ""
			value = ""
			inKey = true
			continue
		}

		if inKey {
			key += string(ch)
		} else {
			value += string(ch)
		}
	}

	if key != "" {
		result[key] = value
	}

	return result
}

// ParseParamBool 解析参数为bool值
// 支持 true/false/1/0/t/f 等 cast 认可的写法
func ParseParamBool(value string) bool {
	return cast.ToBool(value)
}

// ParseAnnotationParams 将注解的参数解析到目标结构体中
// annotation: 注解对象，包含参数键值对
// target: 目标结构体（必须是指针）
// paramDefs: 参数定义列表，用于应用默认值和校验必填项
//
// 示例:
//
//	var params DerefParams
//	err := plugin.ParseAnnotationParams(annotation, &params, paramDefs)
func ParseAnnotationParams(annotation *Annotation, target any, paramDefs []ParamDef) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return nil // 必须是非nil指针
	}

	val = val.Elem()
	typ := val.Type()
	if typ.Kind() != reflect.Struct {
		return nil // 必须是结构体
	}

	// 创建参数定义的映射，方便查找默认值
	defMap := make(map[string]ParamDef)
	for _, def := range paramDefs {
		defMap[def.Name] = def
	}

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		fieldVal := val.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		tag := field.Tag.Get("param")
		if tag == "" {
			continue
		}

		paramDef := parseParamTag(tag)
		paramName := paramDef.Name
		if paramName == "" {
			continue
		}

		paramValue := annotation.GetParam(paramName)

		// 如果注解中没有该参数，使用默认值；必填项缺失报错
		if paramValue == "" {
			if def, ok := defMap[paramName]; ok {
				if def.Required && !annotation.HasParam(paramName) {
					return fmt.Errorf("注解 @%s 缺少必填参数 %s", annotation.Name, paramName)
				}
				paramValue = def.Default
			}
		}

		if err := setFieldValue(fieldVal, paramValue); err != nil {
			return fmt.Errorf("参数 %s 取值无效: %w", paramName, err)
		}
	}

	return nil
}

// setFieldValue 设置字段值，支持 string, int, bool 等基本类型
func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intVal, err := cast.ToInt64E(emptyToZero(value))
		if err != nil {
			return err
		}
		field.SetInt(intVal)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintVal, err := cast.ToUint64E(emptyToZero(value))
		if err != nil {
			return err
		}
		field.SetUint(uintVal)
	case reflect.Bool:
		if value == "" {
			field.SetBool(false)
			return nil
		}
		boolVal, err := cast.ToBoolE(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	case reflect.Float32, reflect.Float64:
		floatVal, err := cast.ToFloat64E(emptyToZero(value))
		if err != nil {
			return err
		}
		field.SetFloat(floatVal)
	}
	return nil
}

func emptyToZero(value string) string {
	if value == "" {
		return "0"
	}
	return value
}
