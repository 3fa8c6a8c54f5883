package utils

import (
	"fmt"
	"os"

	"golang.org/x/tools/imports"
)

// WriteFormat 格式化 Go 源码并写入文件
// 使用 goimports 整理 import 并格式化，格式化失败时写入原始内容，
// 保留现场便于排查生成错误
func WriteFormat(path string, source []byte) error {
	formatted, err := imports.Process(path, source, &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		// 写入未格式化的内容，返回错误让调用方感知
		if writeErr := os.WriteFile(path, source, 0644); writeErr != nil {
			return fmt.Errorf("格式化失败 (%v) 且写入失败: %w", err, writeErr)
		}
		return fmt.Errorf("格式化失败（已写入未格式化内容）: %w", err)
	}

	return os.WriteFile(path, formatted, 0644)
}
