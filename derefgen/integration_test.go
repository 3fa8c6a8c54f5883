package derefgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/donutnomad/derefgen/plugin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const integrationSource = `package models

// StringWithCount 带计数的字符串
// @Deref
type StringWithCount struct {
	Inner string ` + "`deref:\"target\"`" + `
	Count uint
}

// ReadOnlyBuffer 只读缓冲
// @Deref(mut=false)
type ReadOnlyBuffer struct {
	buf  []byte ` + "`deref:\"target\"`" + `
	name string
}
`

// TestRun_WritesGeneratedFile 从扫描到写盘的完整链路：
// 扫描注解、解析参数、执行生成器、格式化并写入生成文件
func TestRun_WritesGeneratedFile(t *testing.T) {
	tmpDir := t.TempDir()
	srcPath := filepath.Join(tmpDir, "models.go")
	require.NoError(t, os.WriteFile(srcPath, []byte(integrationSource), 0644))

	registry := plugin.NewRegistry()
	require.NoError(t, registry.Register(NewDerefGenerator()))

	stats, err := plugin.RunWithOptionsAndStats(context.Background(), &plugin.RunOptions{
		Registry: registry,
		Patterns: []string{tmpDir},
	})
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.TargetCount)
	assert.Equal(t, 1, stats.FileCount)

	outPath := filepath.Join(tmpDir, "models_deref.go")
	data, err := os.ReadFile(outPath)
	require.NoError(t, err, "应写入 %s", outPath)

	code := string(data)
	assert.Contains(t, code, "Code generated by derefgen. DO NOT EDIT.")
	assert.Contains(t, code, "package models")

	// 写盘内容已经过 goimports 格式化
	assert.Contains(t, code, "func (s *StringWithCount) Deref() *string {")
	assert.Contains(t, code, "func (s *StringWithCount) DerefMut() *string {")
	assert.Contains(t, code, "return &s.Inner")

	// mut=false 只生成只读访问器
	assert.Contains(t, code, "func (r *ReadOnlyBuffer) Deref() *[]byte {")
	assert.NotContains(t, code, "func (r *ReadOnlyBuffer) DerefMut()")
	assert.Contains(t, code, "return &r.buf")
}
