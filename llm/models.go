// Package llm provides shared data models for LLM providers.
package llm

// Response is a successful provider reply.
type Response struct {
	Text   string
	Status int // HTTP status of the exchange
}

// Credentials carries what a single call needs from settings.
type Credentials struct {
	APIKey  string
	Model   string // empty means the provider default
	BaseURL string // empty means the public endpoint
}

// Gemini model identifiers
const (
	// ModelGeminiFlash15 is Gemini 1.5 Flash, the default.
	ModelGeminiFlash15 = "gemini-1.5-flash"
)

// Claude model identifiers
const (
	// ModelClaudeHaiku3 is Claude 3 Haiku, the default.
	ModelClaudeHaiku3 = "claude-3-haiku-20240307"
)

// ClaudeMaxTokens is the output budget sent with every Claude request.
const ClaudeMaxTokens = 1024
