// Package segment splits page text into bounded pieces: provider-sized chunks
// and short supporting snippets.
package segment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ChunkSeparator joins paragraphs packed into the same chunk.
const ChunkSeparator = "\n\n"

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// Chunk splits text into segments of at most maxLength runes.
//
// Consecutive blank-line delimited paragraphs are packed greedily. A paragraph
// longer than maxLength is emitted on its own and hard-sliced into pieces of
// exactly maxLength runes (the last piece may be shorter), without regard for
// word boundaries. Whitespace-only input yields nil.
func Chunk(text string, maxLength int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	if maxLength <= 0 {
		return []string{trimmed}
	}

	sepLen := utf8.RuneCountInString(ChunkSeparator)

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen == 0 {
			return
		}
		chunks = append(chunks, current.String())
		current.Reset()
		currentLen = 0
	}

	for _, paragraph := range paragraphBreak.Split(trimmed, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		length := utf8.RuneCountInString(paragraph)

		if length > maxLength {
			flush()
			chunks = append(chunks, slice(paragraph, maxLength)...)
			continue
		}

		if currentLen > 0 && currentLen+sepLen+length > maxLength {
			flush()
		}
		if currentLen > 0 {
			current.WriteString(ChunkSeparator)
			currentLen += sepLen
		}
		current.WriteString(paragraph)
		currentLen += length
	}
	flush()

	return chunks
}

// slice cuts s into pieces of size runes.
func slice(s string, size int) []string {
	runes := []rune(s)
	pieces := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	return pieces
}
