package structparse

import (
	"go/ast"
	"path/filepath"
	"strings"
)

// extractImports 提取文件中的导入信息
// key 是字段类型里可能出现的包前缀：显式别名或导入路径的末段
func extractImports(node *ast.File) map[string]*ImportInfo {
	imports := make(map[string]*ImportInfo)

	for _, imp := range node.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")

		if imp.Name != nil {
			name := imp.Name.Name
			if name == "_" || name == "." {
				continue
			}
			imports[name] = &ImportInfo{
				Alias:      name,
				ImportPath: importPath,
			}
			continue
		}

		// 没有显式别名，末段作为包前缀
		// 真实包名与末段不一致的包需要显式别名才能被字段引用到
		base := filepath.Base(importPath)
		imports[base] = &ImportInfo{
			ImportPath: importPath,
		}
	}

	return imports
}

// extractPkgPath 从字段类型提取包路径和别名
// "*time.Time" -> ("time", "")；本包或内置类型返回空
func extractPkgPath(fieldType string, imports map[string]*ImportInfo) (pkgPath, pkgAlias string) {
	cleanType := fieldType
	for strings.HasPrefix(cleanType, "*") || strings.HasPrefix(cleanType, "[]") {
		cleanType = strings.TrimPrefix(cleanType, "*")
		cleanType = strings.TrimPrefix(cleanType, "[]")
	}

	dotIdx := strings.Index(cleanType, ".")
	if dotIdx <= 0 {
		return "", ""
	}

	pkgPrefix := cleanType[:dotIdx]
	if info, exists := imports[pkgPrefix]; exists {
		return info.ImportPath, info.Alias
	}

	return "", ""
}
