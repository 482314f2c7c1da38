package llm

import (
	"fmt"
	"strings"
)

// Messages carried by *Error. The orchestrator maps them to user-facing text.
const (
	MsgProviderError = "Provider error"
	MsgEmptyResponse = "Empty response from provider"
	MsgTimedOut      = "Request timed out"
)

// DebugMaxChars bounds the raw-response excerpt attached to failures.
const DebugMaxChars = 300

// ErrorKind classifies a provider failure.
type ErrorKind int

const (
	// KindProvider covers network, HTTP status and parse failures.
	KindProvider ErrorKind = iota
	// KindTimeout means the call exceeded its deadline.
	KindTimeout
	// KindEmpty means a successful response carried no text.
	KindEmpty
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindProvider:
		return "provider"
	case KindTimeout:
		return "timeout"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Error is the failure type returned by providers and the Adapter.
// Debug holds a whitespace-collapsed excerpt of the raw response body and must
// never be shown as the primary message.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int // zero when no HTTP response was received
	Debug   string
	Cause   error
}

// Error implements the error interface. The raw body is not included.
func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// Unwrap returns the underlying transport or SDK error.
func (e *Error) Unwrap() error {
	return e.Cause
}

func providerError(status int, debug string, cause error) *Error {
	return &Error{Kind: KindProvider, Message: MsgProviderError, Status: status, Debug: debug, Cause: cause}
}

func timeoutError(cause error) *Error {
	return &Error{Kind: KindTimeout, Message: MsgTimedOut, Cause: cause}
}

func emptyResponseError(status int, debug string) *Error {
	return &Error{Kind: KindEmpty, Message: MsgEmptyResponse, Status: status, Debug: debug}
}

// debugSnippet collapses whitespace and keeps the first DebugMaxChars runes.
func debugSnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	collapsed := strings.Join(strings.Fields(string(body)), " ")
	runes := []rune(collapsed)
	if len(runes) > DebugMaxChars {
		return string(runes[:DebugMaxChars])
	}
	return collapsed
}
