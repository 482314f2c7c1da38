// Package storage provides settings persistence and the per-tab extraction cache.
//
// Information Hiding:
// - Settings key names and defaults hidden behind Settings accessors
// - Backend (SQLite or map) hidden behind SettingsStore
// - Cache entry layout and expiry rules hidden behind ExtractionCache

package storage

import (
	"context"
	"strconv"
	"strings"
)

// Settings keys as persisted.
const (
	KeyActiveProvider = "activeProvider"
	KeySummaryDefault = "summaryDefault"
	KeyModelGemini    = "modelGemini"
	KeyModelClaude    = "modelClaude"
	KeyGeminiKey      = "geminiKey"
	KeyClaudeKey      = "claudeKey"
	KeyAutoSelection  = "autoSelectionEnabled"
)

// Defaults applied when a key is absent.
const (
	DefaultProvider    = "gemini"
	DefaultSummary     = "short"
	DefaultModelGemini = "gemini-1.5-flash"
	DefaultModelClaude = "claude-3-haiku-20240307"
)

// SettingsStore persists user settings as string key/value pairs.
// Reads return Settings with defaults applied.
type SettingsStore interface {
	// Get returns the current settings.
	Get(ctx context.Context) (Settings, error)

	// Set writes the given keys. Empty values are stored as-is.
	Set(ctx context.Context, values map[string]string) error

	// Remove deletes a key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Settings is the typed view of the persisted key/value pairs.
type Settings struct {
	ActiveProvider string
	SummaryDefault string
	ModelGemini    string
	ModelClaude    string
	GeminiKey      string
	ClaudeKey      string
	AutoSelection  bool
}

// DefaultSettings returns settings with no keys and every default applied.
func DefaultSettings() Settings {
	return settingsFromMap(nil)
}

// KeyFor returns the stored API key for a provider, or "" when unknown or unset.
func (s Settings) KeyFor(provider string) string {
	switch normalize(provider) {
	case "gemini":
		return s.GeminiKey
	case "claude":
		return s.ClaudeKey
	default:
		return ""
	}
}

// ModelFor returns the configured model for a provider.
func (s Settings) ModelFor(provider string) string {
	switch normalize(provider) {
	case "gemini":
		return s.ModelGemini
	case "claude":
		return s.ModelClaude
	default:
		return ""
	}
}

// KeyName returns the settings key that holds a provider's API key.
func KeyName(provider string) (string, bool) {
	switch normalize(provider) {
	case "gemini":
		return KeyGeminiKey, true
	case "claude":
		return KeyClaudeKey, true
	default:
		return "", false
	}
}

// Map returns the settings as persisted key/value pairs.
func (s Settings) Map() map[string]string {
	return map[string]string{
		KeyActiveProvider: s.ActiveProvider,
		KeySummaryDefault: s.SummaryDefault,
		KeyModelGemini:    s.ModelGemini,
		KeyModelClaude:    s.ModelClaude,
		KeyGeminiKey:      s.GeminiKey,
		KeyClaudeKey:      s.ClaudeKey,
		KeyAutoSelection:  strconv.FormatBool(s.AutoSelection),
	}
}

func settingsFromMap(values map[string]string) Settings {
	get := func(key, fallback string) string {
		if v, ok := values[key]; ok && strings.TrimSpace(v) != "" {
			return v
		}
		return fallback
	}

	auto := true
	if v, ok := values[KeyAutoSelection]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			auto = parsed
		}
	}

	return Settings{
		ActiveProvider: get(KeyActiveProvider, DefaultProvider),
		SummaryDefault: get(KeySummaryDefault, DefaultSummary),
		ModelGemini:    get(KeyModelGemini, DefaultModelGemini),
		ModelClaude:    get(KeyModelClaude, DefaultModelClaude),
		GeminiKey:      values[KeyGeminiKey],
		ClaudeKey:      values[KeyClaudeKey],
		AutoSelection:  auto,
	}
}

func normalize(provider string) string {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "gemini", "google":
		return "gemini"
	case "claude", "anthropic":
		return "claude"
	default:
		return ""
	}
}
