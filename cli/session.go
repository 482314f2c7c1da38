// Interactive session over one runtime.
//
// Information Hiding:
// - Active tab bookkeeping hidden
// - Command parsing hidden
// - Extraction cache shared across commands of the session

package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richinex/pagebrief/model"
)

const sessionHelp = `Commands:
  open <url>                      open a tab and make it active
  navigate <url>                  point the active tab at another page
  close                           close the active tab
  summarize [tier] [--refresh]    summarize the active tab
  ask <question>                  answer from the active tab's content
  exit                            leave the session`

// Session runs an interactive loop. Pages extracted during the session stay
// cached per tab until the tab navigates, closes or the entry expires.
func Session(ctx context.Context, opts Options) error {
	rt, err := newRuntime(ctx, opts, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	fmt.Printf("pagebrief session. Type 'help' for commands, 'exit' to quit.\n\n")
	return runSession(ctx, rt, opts.Provider, os.Stdin, os.Stdout, os.Stderr)
}

type session struct {
	rt       *runtime
	provider string
	active   int
	out      io.Writer
	errOut   io.Writer
}

func runSession(ctx context.Context, rt *runtime, provider string, in io.Reader, out, errOut io.Writer) error {
	s := &session{rt: rt, provider: provider, out: out, errOut: errOut}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if err := s.dispatch(ctx, input); err != nil {
			fmt.Fprintf(errOut, "Error: %v\n", err)
		}
	}

	return scanner.Err()
}

func (s *session) dispatch(ctx context.Context, input string) error {
	command, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(command) {
	case "help":
		fmt.Fprintln(s.out, sessionHelp)
		return nil
	case "open":
		if rest == "" {
			return fmt.Errorf("open needs a URL")
		}
		s.active = s.rt.tabs.Open(rest)
		fmt.Fprintf(s.out, "Tab %d: %s\n", s.active, rest)
		return nil
	case "navigate", "go":
		if rest == "" {
			return fmt.Errorf("navigate needs a URL")
		}
		if !s.rt.tabs.Navigate(s.active, rest) {
			return fmt.Errorf("no active tab")
		}
		fmt.Fprintf(s.out, "Tab %d: %s\n", s.active, rest)
		return nil
	case "close":
		if _, ok := s.rt.tabs.URL(s.active); !ok {
			return fmt.Errorf("no active tab")
		}
		s.rt.tabs.Close(s.active)
		fmt.Fprintf(s.out, "Closed tab %d\n", s.active)
		s.active = 0
		return nil
	case "summarize":
		req, err := s.summaryRequest(strings.Fields(rest))
		if err != nil {
			return err
		}
		return s.rt.run(ctx, req)
	case "ask":
		return s.rt.run(ctx, model.RequestContext{
			Provider: s.provider,
			Mode:     model.ModeQA,
			Source:   model.SourcePage,
			Query:    rest,
			TabID:    s.active,
		})
	default:
		return fmt.Errorf("unknown command %q (type 'help')", command)
	}
}

func (s *session) summaryRequest(args []string) (model.RequestContext, error) {
	req := model.RequestContext{
		Provider: s.provider,
		Mode:     model.ModeSummary,
		Source:   model.SourcePage,
		TabID:    s.active,
	}
	for _, arg := range args {
		if arg == "--refresh" {
			req.ForceRefresh = true
			continue
		}
		tier, ok := model.ParseTier(arg)
		if !ok {
			return req, fmt.Errorf("unknown tier %q (expected short, medium or detailed)", arg)
		}
		req.Tier = tier
	}
	return req, nil
}
