// LLM Provider Factory - builder API for creating LLM providers.
//
// Quick Start:
//
//	// Stored settings
//	p, err := llm.NewProviderBuilder(llm.ProviderClaude).
//	    Model(settings.ModelClaude).
//	    APIKey(settings.ClaudeKey)
//
//	// Test server
//	p, err := llm.NewProviderBuilder(llm.ProviderGemini).
//	    BaseURL(server.URL).
//	    APIKey("test-key")

package llm

import (
	"fmt"
	"net/http"
	"strings"
)

// ProviderType represents supported LLM providers.
type ProviderType int

const (
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini ProviderType = iota
	// ProviderClaude is the Anthropic Claude provider.
	ProviderClaude
)

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderGemini:
		return "gemini"
	case ProviderClaude:
		return "claude"
	default:
		return "unknown"
	}
}

// DefaultModel returns the default model for this provider.
func (p ProviderType) DefaultModel() string {
	switch p {
	case ProviderGemini:
		return ModelGeminiFlash15
	case ProviderClaude:
		return ModelClaudeHaiku3
	default:
		return ""
	}
}

// ParseProviderType parses a provider from string (case-insensitive).
func ParseProviderType(s string) (ProviderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gemini", "google":
		return ProviderGemini, nil
	case "claude", "anthropic":
		return ProviderClaude, nil
	default:
		return 0, fmt.Errorf("unknown provider: %s", s)
	}
}

// SupportedProviders lists the canonical provider names.
func SupportedProviders() []string {
	return []string{ProviderGemini.String(), ProviderClaude.String()}
}

// constructors is the dispatch table used by the builder.
var constructors = map[ProviderType]func(apiKey, model, baseURL string, transport http.RoundTripper) Provider{
	ProviderGemini: func(apiKey, model, baseURL string, transport http.RoundTripper) Provider {
		return NewGeminiProvider(apiKey, model, baseURL, transport)
	},
	ProviderClaude: func(apiKey, model, baseURL string, transport http.RoundTripper) Provider {
		return NewClaudeProvider(apiKey, model, baseURL, transport)
	},
}

// ProviderBuilder is a builder for configuring LLM providers.
type ProviderBuilder struct {
	providerType ProviderType
	model        string
	baseURL      string
	transport    http.RoundTripper
}

// NewProviderBuilder creates a new builder for the given provider.
func NewProviderBuilder(providerType ProviderType) *ProviderBuilder {
	return &ProviderBuilder{
		providerType: providerType,
	}
}

// Model sets the model to use.
func (b *ProviderBuilder) Model(model string) *ProviderBuilder {
	b.model = model
	return b
}

// BaseURL points the provider at a different endpoint.
func (b *ProviderBuilder) BaseURL(url string) *ProviderBuilder {
	b.baseURL = url
	return b
}

// Transport sets the base round tripper (default http.DefaultTransport).
func (b *ProviderBuilder) Transport(rt http.RoundTripper) *ProviderBuilder {
	b.transport = rt
	return b
}

// APIKey builds the provider with an explicit API key.
func (b *ProviderBuilder) APIKey(key string) (Provider, error) {
	return b.build(key)
}

func (b *ProviderBuilder) build(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%s: API key is empty", b.providerType)
	}

	construct, ok := constructors[b.providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %v", b.providerType)
	}

	model := b.model
	if model == "" {
		model = b.providerType.DefaultModel()
	}

	return construct(apiKey, model, b.baseURL, b.transport), nil
}
