package utils

import "testing"

func TestReceiverName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"User", "u"},
		{"StringWithCount", "s"},
		{"Box", "b"},
		{"Ärmel", "ä"},
		{"数据", "数"},
		{"", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ReceiverName(tt.input); got != tt.want {
				t.Errorf("ReceiverName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBaseTypeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Base", "Base"},
		{"*Base", "Base"},
		{"pkg.Base", "Base"},
		{"*pkg.Base", "Base"},
		{"[]Item", "Item"},
		{"*time.Time", "Time"},
		{"List[T]", "List"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := BaseTypeName(tt.input); got != tt.want {
				t.Errorf("BaseTypeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
