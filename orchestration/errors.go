package orchestration

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/richinex/pagebrief/extract"
	"github.com/richinex/pagebrief/llm"
	"github.com/richinex/pagebrief/model"
)

// User-facing failure messages produced by the orchestrator.
const (
	MsgMissingSelection    = "Missing selection."
	MsgMissingKey          = "Missing API key"
	MsgMissingQuestion     = "Missing question."
	MsgBusy                = "A request is already in progress."
	MsgInvalidKey          = "Invalid API key"
	MsgRateLimited         = "Rate limit exceeded"
	MsgSettingsUnavailable = "Unable to load settings."
)

// InputError is a request that cannot proceed because input is missing.
type InputError struct {
	Message string
	Cause   error
}

func (e *InputError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InputError) Unwrap() error {
	return e.Cause
}

// ChunkError wraps a provider failure during chunked summarization.
// Index is 1-based.
type ChunkError struct {
	Index int
	Total int
	Err   error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("chunk %d/%d: %v", e.Index, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}

// failureFor converts any error reaching the request boundary into the
// user-facing failure payload.
func failureFor(err error) model.Failure {
	var ierr *InputError
	if errors.As(err, &ierr) {
		return model.Failure{Message: ierr.Message}
	}

	var xerr *extract.ExtractionError
	if errors.As(err, &xerr) {
		return model.Failure{Message: xerr.Reason}
	}

	var perr *llm.Error
	if errors.As(err, &perr) {
		return providerFailure(perr)
	}

	return model.Failure{Message: llm.MsgProviderError}
}

func providerFailure(perr *llm.Error) model.Failure {
	message := perr.Message
	switch {
	case perr.Status == http.StatusUnauthorized || perr.Status == http.StatusForbidden:
		message = MsgInvalidKey
	case perr.Status == http.StatusTooManyRequests:
		message = MsgRateLimited
	case perr.Kind == llm.KindTimeout:
		message = llm.MsgTimedOut
	case perr.Kind == llm.KindProvider && perr.Status != 0:
		message = llm.MsgProviderError
	}
	return model.Failure{Message: message, Status: perr.Status, Debug: perr.Debug}
}
