package llm

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ResponseParser locates the response text in a raw provider body.
// It returns "" when none of the known shapes carries text.
type ResponseParser func(body []byte) string

// parseGeminiText reads candidates[].content.parts[].text and the older
// flat shapes (content.text, candidate.text, candidate.output, text).
func parseGeminiText(body []byte) string {
	data := gjson.ParseBytes(body)

	var text string
	candidates := data.Get("candidates")
	if candidates.IsArray() {
		candidates.ForEach(func(_, candidate gjson.Result) bool {
			content := candidate.Get("content")
			if !content.IsObject() {
				content = candidate
			}

			parts := content.Get("parts")
			if !parts.Exists() {
				parts = candidate.Get("parts")
			}
			if parts.IsArray() {
				if joined := joinText(parts); joined != "" {
					text = joined
					return false
				}
			}

			for _, field := range []gjson.Result{
				content.Get("text"),
				candidate.Get("text"),
				candidate.Get("output"),
			} {
				if s := stringValue(field); s != "" {
					text = s
					return false
				}
			}
			return true
		})
	}
	if text != "" {
		return text
	}

	return stringValue(data.Get("text"))
}

// parseClaudeText reads a content block list, a plain string content, or the
// legacy completion field.
func parseClaudeText(body []byte) string {
	data := gjson.ParseBytes(body)

	content := data.Get("content")
	if s := stringValue(content); s != "" {
		return s
	}
	if content.IsArray() {
		if joined := joinText(content); joined != "" {
			return joined
		}
	}

	return stringValue(data.Get("completion"))
}

// joinText concatenates the string "text" members of an array of objects.
func joinText(parts gjson.Result) string {
	var b strings.Builder
	parts.ForEach(func(_, part gjson.Result) bool {
		b.WriteString(stringValue(part.Get("text")))
		return true
	})
	return b.String()
}

func stringValue(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}
