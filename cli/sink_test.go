package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/richinex/pagebrief/model"
	"github.com/richinex/pagebrief/orchestration"
)

func TestTerminalSinkResult(t *testing.T) {
	var out, errOut bytes.Buffer
	sink := NewTerminalSink(&out, &errOut, false)

	sink.Emit(orchestration.Event{Type: orchestration.EventProgress, Message: "Summarizing chunk 1/2..."})
	sink.Emit(orchestration.Event{
		Type:     orchestration.EventResult,
		Text:     "- point",
		Snippets: []string{"quote one", "quote two"},
		Metadata: &model.Metadata{Provider: "gemini", Mode: model.ModeSummary, Chunks: 2, Truncated: true},
	})

	if errOut.String() != "Summarizing chunk 1/2...\n" {
		t.Errorf("unexpected progress output %q", errOut.String())
	}
	want := "- point\n\nSnippets:\n  > quote one\n  > quote two\n\n(gemini, summary, 2 chunks, page truncated)\n"
	if out.String() != want {
		t.Errorf("unexpected result output:\n%q\nwant:\n%q", out.String(), want)
	}
}

func TestTerminalSinkDebugOnlyWhenVerbose(t *testing.T) {
	failure := orchestration.Event{Type: orchestration.EventFailure, Message: "Provider error", Status: 500, Debug: "boom"}

	var quiet bytes.Buffer
	NewTerminalSink(&quiet, &quiet, false).Emit(failure)
	if quiet.Len() != 0 {
		t.Errorf("expected no output, got %q", quiet.String())
	}

	var loud bytes.Buffer
	NewTerminalSink(&loud, &loud, true).Emit(failure)
	if !strings.Contains(loud.String(), "Debug: boom") {
		t.Errorf("expected debug output, got %q", loud.String())
	}
}

func TestFailureErrorMessage(t *testing.T) {
	err := &FailureError{Failure: model.Failure{Message: "Rate limit exceeded", Status: 429}}
	if err.Error() != "Rate limit exceeded (status 429)" {
		t.Errorf("unexpected error text %q", err.Error())
	}
	err = &FailureError{Failure: model.Failure{Message: "Missing API key"}}
	if err.Error() != "Missing API key" {
		t.Errorf("unexpected error text %q", err.Error())
	}
}

func TestParsePairs(t *testing.T) {
	values, err := parsePairs([]string{"activeProvider=Anthropic", "summaryDefault=medium", "geminiKey= abc "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if values["activeProvider"] != "claude" || values["summaryDefault"] != "medium" || values["geminiKey"] != "abc" {
		t.Errorf("unexpected values %v", values)
	}

	for _, bad := range []string{"noequals", "=x", "unknown=1", "summaryDefault=huge", "activeProvider=openai"} {
		if _, err := parsePairs([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestMaskKey(t *testing.T) {
	cases := map[string]string{
		"":                 "(not set)",
		"short":            "stored",
		"sk-ant-123456789": "sk-a...6789",
	}
	for in, want := range cases {
		if got := maskKey(in); got != want {
			t.Errorf("maskKey(%q) = %q, want %q", in, got, want)
		}
	}
}
