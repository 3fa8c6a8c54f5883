package plugin

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestParseConfigLine(t *testing.T) {
	tests := []struct {
		name           string
		line           string
		wantDefault    string
		wantPluginOuts map[string]string
		wantNil        bool
	}{
		{
			name:        "默认输出",
			line:        "-output `$FILE_deref`",
			wantDefault: "$FILE_deref",
		},
		{
			name:           "插件特定输出",
			line:           "plugin:derefgen -output `$FILE_deref`",
			wantPluginOuts: map[string]string{"derefgen": "$FILE_deref"},
		},
		{
			name:           "插件名大小写不敏感",
			line:           "plugin:DerefGen -output custom",
			wantPluginOuts: map[string]string{"derefgen": "custom"},
		},
		{
			name:        "双引号",
			line:        `-output "$PACKAGE_deref"`,
			wantDefault: "$PACKAGE_deref",
		},
		{
			name:    "空行",
			line:    "",
			wantNil: true,
		},
		{
			name:    "只有插件名没有输出",
			line:    "plugin:derefgen",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := parseConfigLine(tt.line, filepath.Join("pkg", "models", "user.go"))

			if tt.wantNil {
				if config != nil {
					t.Errorf("parseConfigLine(%q) = %+v, want nil", tt.line, config)
				}
				return
			}

			if config == nil {
				t.Fatalf("parseConfigLine(%q) = nil", tt.line)
			}
			if config.DefaultOutput != tt.wantDefault {
				t.Errorf("DefaultOutput = %q, want %q", config.DefaultOutput, tt.wantDefault)
			}
			for plugin, want := range tt.wantPluginOuts {
				if got := config.PluginOutputs[plugin]; got != want {
					t.Errorf("PluginOutputs[%q] = %q, want %q", plugin, got, want)
				}
			}
			if config.PackageDir != filepath.Join("pkg", "models") {
				t.Errorf("PackageDir = %q", config.PackageDir)
			}
		})
	}
}

func TestSplitConfigArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"-output `$FILE_deref`", []string{"-output", "`$FILE_deref`"}},
		{"plugin:derefgen -output x", []string{"plugin:derefgen", "-output", "x"}},
		{"-output `a b c`", []string{"-output", "`a b c`"}},
		{"  -output   x  ", []string{"-output", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := splitConfigArgs(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("splitConfigArgs(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("splitConfigArgs(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"`x`", "x"},
		{`"x"`, "x"},
		{"'x'", "x"},
		{"x", "x"},
		{"`x", "`x"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := trimQuotes(tt.input); got != tt.want {
			t.Errorf("trimQuotes(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestScanPackageConfig(t *testing.T) {
	tmpDir := t.TempDir()

	testFile := filepath.Join(tmpDir, "models.go")
	content := "//go:derefgen: -output `$FILE_deref`\n" + `package models

// @Deref
type User struct {
	Name string
}
`
	if err := os.WriteFile(testFile, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	scanner := NewScanner()
	result, err := scanner.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	config, ok := result.PackageConfigs[tmpDir]
	if !ok {
		t.Fatalf("expected package config for %s, got %v", tmpDir, result.PackageConfigs)
	}
	if config.DefaultOutput != "$FILE_deref" {
		t.Errorf("DefaultOutput = %q, want $FILE_deref", config.DefaultOutput)
	}
}

func TestQuickMatchFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		content string
		filter  []string
		want    bool
	}{
		{
			name:    "有注解",
			content: "package x\n\n// @Deref\ntype A struct{ V string }\n",
			want:    true,
		},
		{
			name:    "无注解",
			content: "package x\n\ntype A struct{ V string }\n",
			want:    false,
		},
		{
			name:    "代码里的 at 符号不算注解",
			content: "package x\n\nvar email = \"user@example.com\"\n",
			want:    false,
		},
		{
			name:    "有配置指令",
			content: "//go:derefgen: -output `x`\npackage x\n",
			want:    true,
		},
		{
			name:    "过滤器不匹配",
			content: "package x\n\n// @Other\ntype A struct{ V string }\n",
			filter:  []string{"Deref"},
			want:    false,
		},
		{
			name:    "过滤器匹配",
			content: "package x\n\n// @Deref\ntype A struct{ V string }\n",
			filter:  []string{"Deref"},
			want:    true,
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, "f"+string(rune('a'+i))+".go")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write file: %v", err)
			}

			scanner := NewScanner(WithAnnotationFilter(tt.filter...))
			got, err := scanner.QuickMatchFile(path)
			if err != nil {
				t.Fatalf("QuickMatchFile failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("QuickMatchFile() = %v, want %v", got, tt.want)
			}
		})
	}
}
