// Package model provides domain types shared across packages.
package model

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// MaxPageChars bounds the text content kept for a page.
const MaxPageChars = 20000

// PageRecord is normalized extracted page content plus metadata.
// A record is immutable once produced.
type PageRecord struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	TextContent string    `json:"textContent"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Lang        string    `json:"lang,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Hash        string    `json:"hash"`
	Truncated   bool      `json:"truncated"`
	RawLength   int       `json:"rawLength"`
}

// NewPageRecord builds a record from raw text, clipping it to MaxPageChars
// and computing the content hash.
func NewPageRecord(url, title, rawText, excerpt, lang string, now time.Time) PageRecord {
	runes := []rune(rawText)
	text := rawText
	truncated := len(runes) > MaxPageChars
	if truncated {
		text = string(runes[:MaxPageChars])
	}

	return PageRecord{
		URL:         url,
		Title:       title,
		TextContent: text,
		Excerpt:     excerpt,
		Lang:        lang,
		Timestamp:   now,
		Hash:        HashContent(title + text),
		Truncated:   truncated,
		RawLength:   len(runes),
	}
}

// HashContent returns the FNV-1a 32-bit hash of the UTF-8 bytes of s as 8
// hex digits.
func HashContent(s string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}

// Mode selects between summarization and question answering.
type Mode string

const (
	ModeSummary Mode = "summary"
	ModeQA      Mode = "qa"
)

// Source selects where the text comes from.
type Source string

const (
	SourcePage      Source = "page"
	SourceSelection Source = "selection"
)

// Tier is one of three summary verbosity levels.
type Tier string

const (
	TierShort    Tier = "short"
	TierMedium   Tier = "medium"
	TierDetailed Tier = "detailed"
)

// ParseTier parses a tier name. Unknown names yield ("", false).
func ParseTier(s string) (Tier, bool) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierShort:
		return TierShort, true
	case TierMedium:
		return TierMedium, true
	case TierDetailed:
		return TierDetailed, true
	default:
		return "", false
	}
}

// RequestContext describes a single invocation. It is never persisted.
type RequestContext struct {
	Provider string // empty means the active provider from settings
	Mode     Mode
	Source   Source
	Tier     Tier // empty means the default tier from settings
	Query    string

	TabID        int
	ForceRefresh bool

	// Selection input, used when Source is SourceSelection.
	SelectionText  string
	SelectionTitle string
	SelectionURL   string
}

// Metadata accompanies a result.
type Metadata struct {
	Provider  string `json:"provider"`
	Mode      Mode   `json:"mode"`
	Truncated bool   `json:"truncated"`
	Chunks    int    `json:"chunks,omitempty"`
}

// Result is the terminal success payload of a request.
type Result struct {
	Text     string   `json:"text"`
	Snippets []string `json:"snippets"`
	Metadata Metadata `json:"metadata"`
}

// Failure is the terminal failure payload of a request.
// Status is zero when no HTTP status is known.
type Failure struct {
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Debug   string `json:"debug,omitempty"`
}
