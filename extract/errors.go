package extract

// User-facing extraction failure reasons.
const (
	MsgNoActiveTab     = "No active tab found."
	MsgUnsupportedPage = "This page cannot be processed. Open a normal website (http/https) tab."
	MsgNoResponse      = "No response from the page."
	MsgFetchFailed     = "Failed to extract content from the active tab."
	MsgNoContent       = "Unable to extract content from this page."
)

// ExtractionError reports why a tab could not produce a page record.
// Reason is safe to show to the user; Cause is for logs.
type ExtractionError struct {
	Reason string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return e.Reason
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func failure(reason string, cause error) *ExtractionError {
	return &ExtractionError{Reason: reason, Cause: cause}
}
