// Recording transport shared by the SDK-backed providers.
//
// Information Hiding:
// - Both SDKs decode responses into their own typed structs and drop
//   fields they do not know; the recorder keeps the raw status and body
//   so classification does not depend on SDK error types.

package llm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/tidwall/gjson"
)

// exchange is the last HTTP response seen by a recorder.
type exchange struct {
	status int
	body   []byte
}

// recorder is an http.RoundTripper that buffers every response body and
// keeps the last status/body pair. One recorder serves one Generate call.
type recorder struct {
	base http.RoundTripper

	mu   sync.Mutex
	last *exchange
}

func newRecorder(base http.RoundTripper) *recorder {
	if base == nil {
		base = http.DefaultTransport
	}
	return &recorder{base: base}
}

// RoundTrip implements http.RoundTripper.
func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	r.mu.Lock()
	r.last = &exchange{status: resp.StatusCode, body: body}
	r.mu.Unlock()

	return resp, nil
}

// client returns an *http.Client routed through the recorder.
func (r *recorder) client() *http.Client {
	return &http.Client{Transport: r}
}

func (r *recorder) exchange() (exchange, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return exchange{}, false
	}
	return *r.last, true
}

// settle turns the outcome of one SDK call into a Response or *Error.
// The recorded exchange wins over the SDK's own error: SDK decoding failures
// on a 2xx body are still parsed with the provider's ResponseParser.
func settle(ctx context.Context, rec *recorder, callErr error, parse ResponseParser) (Response, error) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(callErr, context.DeadlineExceeded) {
		return Response{}, timeoutError(callErr)
	}

	ex, ok := rec.exchange()
	if !ok {
		return Response{}, providerError(0, "", callErr)
	}

	debug := debugSnippet(ex.body)
	if ex.status < 200 || ex.status >= 300 {
		return Response{}, providerError(ex.status, debug, callErr)
	}

	if len(bytes.TrimSpace(ex.body)) > 0 && !gjson.ValidBytes(ex.body) {
		return Response{}, providerError(ex.status, debug, callErr)
	}

	text := parse(ex.body)
	if text == "" {
		return Response{}, emptyResponseError(ex.status, debug)
	}

	return Response{Text: text, Status: ex.status}, nil
}
