// Package llm provides LLM provider abstractions.
//
// LLM Provider interface - the abstract interface for LLM providers.
// Each provider implementation hides:
// - API client initialization and authentication
// - Request construction for the provider's wire format
// - Locating response text in the provider's response shapes
// - Classification of HTTP and transport failures

package llm

import (
	"context"
)

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing
// a single text-in, text-out call.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Generate sends one prompt and returns the response text.
	// Exactly one network call is made; failures are returned as *Error.
	Generate(ctx context.Context, prompt string) (Response, error)
}
