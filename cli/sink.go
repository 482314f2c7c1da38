package cli

import (
	"fmt"
	"io"

	"github.com/richinex/pagebrief/orchestration"
)

// TerminalSink renders orchestrator events for a terminal. Results go to out,
// everything else to errOut. Failures are returned to the caller as errors,
// so the sink only prints their debug text in verbose mode.
type TerminalSink struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
}

// NewTerminalSink creates a sink writing to out and errOut.
func NewTerminalSink(out, errOut io.Writer, verbose bool) *TerminalSink {
	return &TerminalSink{out: out, errOut: errOut, verbose: verbose}
}

// Emit prints one event.
func (s *TerminalSink) Emit(e orchestration.Event) {
	switch e.Type {
	case orchestration.EventProgress:
		fmt.Fprintf(s.errOut, "%s\n", e.Message)
	case orchestration.EventExtracted:
		if s.verbose && e.Page != nil {
			fmt.Fprintf(s.errOut, "Extracted %q (%d chars)\n", e.Page.Title, e.Page.RawLength)
		}
	case orchestration.EventExtractError:
		if s.verbose {
			fmt.Fprintf(s.errOut, "Extraction failed: %s\n", e.Message)
		}
	case orchestration.EventFailure:
		if s.verbose && e.Debug != "" {
			fmt.Fprintf(s.errOut, "Debug: %s\n", e.Debug)
		}
	case orchestration.EventResult:
		s.printResult(e)
	}
}

func (s *TerminalSink) printResult(e orchestration.Event) {
	fmt.Fprintf(s.out, "%s\n", e.Text)

	if len(e.Snippets) > 0 {
		fmt.Fprintf(s.out, "\nSnippets:\n")
		for _, snippet := range e.Snippets {
			fmt.Fprintf(s.out, "  > %s\n", snippet)
		}
	}

	if e.Metadata != nil {
		fmt.Fprintf(s.out, "\n(%s, %s", e.Metadata.Provider, e.Metadata.Mode)
		if e.Metadata.Chunks > 0 {
			fmt.Fprintf(s.out, ", %d chunks", e.Metadata.Chunks)
		}
		if e.Metadata.Truncated {
			fmt.Fprintf(s.out, ", page truncated")
		}
		fmt.Fprintf(s.out, ")\n")
	}
}
