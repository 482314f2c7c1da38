package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/richinex/pagebrief/model"
)

const (
	SnippetMin      = 2
	SnippetMax      = 5
	SnippetMaxChars = 200
)

var sentenceLike = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)

// Snippets derives between SnippetMin and SnippetMax short quotes from a page.
// Fewer than SnippetMin are returned only when the page offers fewer
// distinct candidates.
func Snippets(page model.PageRecord) []string {
	var snippets []string
	seen := make(map[string]struct{})

	push := func(value string) {
		snippet := clip(value)
		if snippet == "" {
			return
		}
		key := strings.ToLower(snippet)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		snippets = append(snippets, snippet)
	}

	if page.Excerpt != "" {
		push(page.Excerpt)
	}

	segments := splitSegments(page.TextContent)
	for _, s := range segments {
		if len(snippets) >= SnippetMax {
			break
		}
		push(s)
	}

	// Top-up pass. Every segment was already offered once, so this only
	// matters if the first pass stopped early.
	if len(snippets) < SnippetMin {
		for _, s := range segments {
			if len(snippets) >= SnippetMin {
				break
			}
			push(s)
		}
	}

	if len(snippets) > SnippetMax {
		snippets = snippets[:SnippetMax]
	}
	return snippets
}

// splitSegments prefers blank-line paragraphs and falls back to sentences.
func splitSegments(text string) []string {
	paragraphs := nonEmpty(paragraphBreak.Split(text, -1))
	if len(paragraphs) >= 2 {
		return paragraphs
	}
	return nonEmpty(sentenceLike.FindAllString(text, -1))
}

func nonEmpty(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func clip(text string) string {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) <= SnippetMaxChars {
		return trimmed
	}
	runes := []rune(trimmed)
	return string(runes[:SnippetMaxChars-3]) + "..."
}
