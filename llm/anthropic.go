// Anthropic Claude Provider implementation using official anthropic-sdk-go.
//
// Information Hiding:
// - API endpoint and authentication (x-api-key, anthropic-version)
// - Messages API request with a single user text message
// - Response text located by parseClaudeText over the raw body

package llm

import (
	"context"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// ClaudeProvider implements the Provider interface for Anthropic Claude.
type ClaudeProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	transport http.RoundTripper
}

// NewClaudeProvider creates a new Claude provider. SDK retries are disabled:
// a failed call fails the request.
func NewClaudeProvider(apiKey, model, baseURL string, transport http.RoundTripper) *ClaudeProvider {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &ClaudeProvider{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: ClaudeMaxTokens,
		transport: transport,
	}
}

// Name returns the provider name.
func (p *ClaudeProvider) Name() string {
	return ProviderClaude.String()
}

// Model returns the current model.
func (p *ClaudeProvider) Model() string {
	return p.model
}

// Generate sends a single user message to the Messages API.
func (p *ClaudeProvider) Generate(ctx context.Context, prompt string) (Response, error) {
	rec := newRecorder(p.transport)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}

	_, err := p.client.Messages.New(ctx, params, option.WithHTTPClient(rec.client()))
	return settle(ctx, rec, err, parseClaudeText)
}

// Verify ClaudeProvider implements Provider
var _ Provider = (*ClaudeProvider)(nil)
