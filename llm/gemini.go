// Google Gemini Provider implementation using official google.golang.org/genai SDK.
//
// Information Hiding:
// - API authentication (x-goog-api-key header) and client creation
// - generateContent request with contents[].parts[].text
// - Response text located by parseGeminiText over the raw body

package llm

import (
	"context"
	"net/http"

	"google.golang.org/genai"
)

// GeminiProvider implements the Provider interface for Google Gemini.
type GeminiProvider struct {
	apiKey    string
	model     string
	baseURL   string
	transport http.RoundTripper
}

// NewGeminiProvider creates a new Gemini provider.
// The genai client is created per call so each call gets its own recorder.
func NewGeminiProvider(apiKey, model, baseURL string, transport http.RoundTripper) *GeminiProvider {
	return &GeminiProvider{
		apiKey:    apiKey,
		model:     model,
		baseURL:   baseURL,
		transport: transport,
	}
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string {
	return ProviderGemini.String()
}

// Model returns the current model.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Generate sends a single-prompt generateContent request.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (Response, error) {
	rec := newRecorder(p.transport)

	config := &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: rec.client(),
	}
	if p.baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return Response{}, providerError(0, "", err)
	}

	_, err = client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	return settle(ctx, rec, err, parseGeminiText)
}

// Verify GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)
