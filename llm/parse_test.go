package llm

import "testing"

func TestParseGeminiText(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"parts", `{"candidates":[{"content":{"parts":[{"text":"Hello "},{"text":"world"}]}}]}`, "Hello world"},
		{"parts on candidate", `{"candidates":[{"parts":[{"text":"direct"}]}]}`, "direct"},
		{"content text", `{"candidates":[{"content":{"text":"flat content"}}]}`, "flat content"},
		{"candidate text", `{"candidates":[{"content":{"parts":[]},"text":"candidate"}]}`, "candidate"},
		{"candidate output", `{"candidates":[{"output":"legacy output"}]}`, "legacy output"},
		{"second candidate", `{"candidates":[{"content":{"parts":[{"inlineData":{}}]}},{"content":{"parts":[{"text":"second"}]}}]}`, "second"},
		{"top-level text", `{"text":"top"}`, "top"},
		{"no text", `{"candidates":[{"finishReason":"SAFETY"}]}`, ""},
		{"empty body", ``, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseGeminiText([]byte(tc.body)); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseClaudeText(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"blocks", `{"content":[{"type":"text","text":"Hi "},{"type":"text","text":"there"}]}`, "Hi there"},
		{"tool block ignored", `{"content":[{"type":"tool_use","id":"x"},{"type":"text","text":"ok"}]}`, "ok"},
		{"string content", `{"content":"plain"}`, "plain"},
		{"completion", `{"completion":"legacy"}`, "legacy"},
		{"empty blocks fall back", `{"content":[],"completion":"fallback"}`, "fallback"},
		{"nothing", `{"content":[]}`, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseClaudeText([]byte(tc.body)); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDebugSnippet(t *testing.T) {
	got := debugSnippet([]byte("  line one\n\n\tline   two  "))
	if got != "line one line two" {
		t.Errorf("unexpected snippet: %q", got)
	}

	long := make([]byte, 1000)
	for i := range long {
		long[i] = 'x'
	}
	if n := len([]rune(debugSnippet(long))); n != DebugMaxChars {
		t.Errorf("expected %d chars, got %d", DebugMaxChars, n)
	}

	if debugSnippet(nil) != "" {
		t.Error("expected empty snippet for empty body")
	}
}
