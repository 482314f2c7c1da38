package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/richinex/pagebrief/config"
	"github.com/richinex/pagebrief/llm"
	"github.com/richinex/pagebrief/storage"
)

type countingCaller struct {
	calls int
}

func (c *countingCaller) Call(ctx context.Context, provider llm.ProviderType, prompt string, creds llm.Credentials) (llm.Response, error) {
	c.calls++
	return llm.Response{Text: "summary text", Status: 200}, nil
}

type pageServer struct {
	*httptest.Server
	hits map[string]*int32
}

func newPageServer(t *testing.T) *pageServer {
	t.Helper()
	ps := &pageServer{hits: map[string]*int32{"/a": new(int32), "/b": new(int32)}}
	ps.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter, ok := ps.hits[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		atomic.AddInt32(counter, 1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, `<html><head><title>Page`+r.URL.Path+`</title></head><body><article>
<p>The first paragraph of the page talks about caching.</p>
<p>The second paragraph talks about tabs and navigation.</p>
</article></body></html>`)
	}))
	t.Cleanup(ps.Close)
	return ps
}

func (ps *pageServer) count(path string) int32 {
	return atomic.LoadInt32(ps.hits[path])
}

func newSessionRuntime(t *testing.T, caller *countingCaller, out, errOut io.Writer) *runtime {
	t.Helper()
	cfg, err := config.LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}
	settings, err := storage.NewSqliteInMemory()
	if err != nil {
		t.Fatalf("failed to open settings: %v", err)
	}
	t.Cleanup(func() { settings.Close() })
	if err := settings.Set(context.Background(), map[string]string{storage.KeyGeminiKey: "g-key"}); err != nil {
		t.Fatalf("failed to store key: %v", err)
	}
	return assemble(cfg, zerolog.Nop(), settings, caller, NewTerminalSink(out, errOut, false))
}

func TestSessionReusesExtraction(t *testing.T) {
	ps := newPageServer(t)
	caller := &countingCaller{}
	var out, errOut bytes.Buffer
	rt := newSessionRuntime(t, caller, &out, &errOut)

	script := strings.Join([]string{
		"open " + ps.URL + "/a",
		"summarize",
		"summarize short",
		"navigate " + ps.URL + "/b",
		"summarize",
		"summarize --refresh",
		"exit",
		"summarize",
	}, "\n")

	if err := runSession(context.Background(), rt, "", strings.NewReader(script), &out, &errOut); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n := ps.count("/a"); n != 1 {
		t.Errorf("expected page a fetched once, got %d", n)
	}
	if n := ps.count("/b"); n != 2 {
		t.Errorf("expected page b fetched twice (navigate, refresh), got %d", n)
	}
	if caller.calls != 4 {
		t.Errorf("expected 4 provider calls, got %d", caller.calls)
	}
	if strings.Count(out.String(), "summary text") != 4 {
		t.Errorf("expected 4 printed results, got:\n%s", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected errors: %s", errOut.String())
	}
}

func TestSessionCommandErrorsContinue(t *testing.T) {
	ps := newPageServer(t)
	caller := &countingCaller{}
	var out, errOut bytes.Buffer
	rt := newSessionRuntime(t, caller, &out, &errOut)

	script := strings.Join([]string{
		"summarize",
		"bogus",
		"open " + ps.URL + "/a",
		"summarize huge",
		"ask   ",
		"close",
		"summarize",
		"ask what is cached?",
	}, "\n")

	if err := runSession(context.Background(), rt, "", strings.NewReader(script), &out, &errOut); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	errs := errOut.String()
	for _, want := range []string{
		"Error: No active tab found.",
		`Error: unknown command "bogus"`,
		`Error: unknown tier "huge"`,
		"Error: Missing question.",
	} {
		if !strings.Contains(errs, want) {
			t.Errorf("expected %q in errors, got:\n%s", want, errs)
		}
	}
	if !strings.Contains(out.String(), "Closed tab 1") {
		t.Errorf("expected close confirmation, got:\n%s", out.String())
	}
	if caller.calls != 0 {
		t.Errorf("expected no provider calls, got %d", caller.calls)
	}
}
