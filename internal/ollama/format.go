package ollama

import "strings"

var nameReplacements = []struct {
	old, new string
}{
	{"-instruct", ""},
	{"-chat", ""},
	{"llama3.2", "Llama 3.2"},
	{"llama3.1", "Llama 3.1"},
	{"codellama", "Code Llama"},
	{"mistral", "Mistral"},
	{"gemma", "Gemma"},
	{"phi", "Phi"},
	{"qwen", "Qwen"},
	{"neural-chat", "Neural Chat"},
	{"orca-mini", "Orca Mini"},
}

var sizeTags = []string{"3b", "7b", "8b", "13b", "14b", "34b", "70b", "72b"}

// FormatModelName turns a raw model tag into a display name: strips
// -instruct/-chat suffixes, capitalizes known family names, and appends a
// parameter-size tag when the raw name carries one.
func FormatModelName(name string) string {
	display := name
	for _, r := range nameReplacements {
		display = strings.ReplaceAll(display, r.old, r.new)
	}

	for _, size := range sizeTags {
		if strings.Contains(name, size) {
			display = display + " (" + strings.ToUpper(size) + ")"
			break
		}
	}
	return display
}
