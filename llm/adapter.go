// Adapter - the single entry point the orchestrator uses to reach a provider.

package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every provider call.
const DefaultTimeout = 20 * time.Second

// Adapter builds a provider per call from credentials and runs the call under
// a timeout. It never retries.
type Adapter struct {
	timeout   time.Duration
	transport http.RoundTripper
	log       zerolog.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) AdapterOption {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithTransport sets the base round tripper for provider HTTP traffic.
func WithTransport(rt http.RoundTripper) AdapterOption {
	return func(a *Adapter) {
		a.transport = rt
	}
}

// WithLogger sets the adapter logger.
func WithLogger(log zerolog.Logger) AdapterOption {
	return func(a *Adapter) {
		a.log = log
	}
}

// NewAdapter creates an adapter with DefaultTimeout and a disabled logger.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Call issues exactly one request to the provider. Failures are *Error.
func (a *Adapter) Call(ctx context.Context, provider ProviderType, prompt string, creds Credentials) (Response, error) {
	p, err := NewProviderBuilder(provider).
		Model(creds.Model).
		BaseURL(creds.BaseURL).
		Transport(a.transport).
		APIKey(creds.APIKey)
	if err != nil {
		return Response{}, providerError(0, "", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.Generate(callCtx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		var perr *Error
		if !errors.As(err, &perr) {
			perr = providerError(0, "", err)
		}
		a.log.Debug().
			Str("provider", p.Name()).
			Str("model", p.Model()).
			Str("kind", perr.Kind.String()).
			Int("status", perr.Status).
			Dur("elapsed", elapsed).
			Msg("Provider call failed")
		return Response{}, perr
	}

	a.log.Debug().
		Str("provider", p.Name()).
		Str("model", p.Model()).
		Int("prompt_chars", len(prompt)).
		Int("response_chars", len(resp.Text)).
		Dur("elapsed", elapsed).
		Msg("Provider call succeeded")
	return resp, nil
}
