package ollama

import "testing"

func TestFormatModelName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"known family with size", "llama3.1:8b", "Llama 3.1:8b (8B)"},
		{"instruct suffix stripped", "mistral-instruct", "Mistral"},
		{"chat suffix stripped", "neural-chat", "neural"},
		{"size tag appended", "gemma:7b", "Gemma:7b (7B)"},
		{"two-digit size tag", "qwen:14b", "Qwen:14b (14B)"},
		{"unknown family keeps raw name", "deepseek-r1:70b", "deepseek-r1:70b (70B)"},
		{"no size tag", "orca-mini", "Orca Mini"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatModelName(tt.raw); got != tt.want {
				t.Errorf("FormatModelName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
