package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func serveHTML(t *testing.T, status int, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func extractURL(t *testing.T, url string, opts ...Option) (string, error) {
	t.Helper()
	tabs := NewTabs()
	id := tabs.Open(url)
	page, err := NewHTTPExtractor(tabs, opts...).Extract(context.Background(), id)
	return page.TextContent, err
}

func reasonOf(t *testing.T, err error) string {
	t.Helper()
	var xerr *ExtractionError
	if !errors.As(err, &xerr) {
		t.Fatalf("expected *ExtractionError, got %v", err)
	}
	return xerr.Reason
}

func TestExtractArticle(t *testing.T) {
	paragraph := strings.Repeat("Readable sentence in the article body. ", 10)
	html := `<html lang="en"><head><title>Doc Title</title>
		<meta property="og:description" content="An OpenGraph description.">
		</head><body>
		<nav>Home | About</nav>
		<header>Site header</header>
		<article><h1>Heading</h1><p>` + paragraph + `</p><p>Second <b>bold</b> paragraph.</p>
		<script>var x = 1;</script></article>
		<footer>Copyright</footer>
		</body></html>`
	server := serveHTML(t, http.StatusOK, html)

	tabs := NewTabs()
	id := tabs.Open(server.URL + "/post")
	stamp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	page, err := NewHTTPExtractor(tabs, WithNow(func() time.Time { return stamp })).Extract(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Title != "Doc Title" {
		t.Errorf("expected title from <title>, got %q", page.Title)
	}
	if page.Lang != "en" {
		t.Errorf("expected lang en, got %q", page.Lang)
	}
	if page.Excerpt != "An OpenGraph description." {
		t.Errorf("expected OpenGraph excerpt, got %q", page.Excerpt)
	}
	if page.URL != server.URL+"/post" {
		t.Errorf("unexpected url %q", page.URL)
	}
	if !page.Timestamp.Equal(stamp) {
		t.Errorf("expected injected timestamp, got %v", page.Timestamp)
	}
	if page.Hash == "" || page.Truncated {
		t.Errorf("unexpected hash/truncation: %q %v", page.Hash, page.Truncated)
	}

	for _, noise := range []string{"Home | About", "Site header", "Copyright", "var x"} {
		if strings.Contains(page.TextContent, noise) {
			t.Errorf("noise %q leaked into text", noise)
		}
	}
	if !strings.HasPrefix(page.TextContent, "Heading\n\nReadable sentence") {
		t.Errorf("expected block separation, got %q", page.TextContent[:40])
	}
	if !strings.HasSuffix(page.TextContent, "\n\nSecond bold paragraph.") {
		t.Errorf("expected inline text joined, got %q", page.TextContent)
	}
}

func TestExtractFallsBackToLongestContainer(t *testing.T) {
	long := strings.Repeat("Main content words. ", 20)
	html := `<html><head><meta property="og:title" content="OG Title"></head><body>
		<article><p>Tiny.</p></article>
		<main><p>` + long + `</p></main>
		</body></html>`
	server := serveHTML(t, http.StatusOK, html)

	tabs := NewTabs()
	id := tabs.Open(server.URL)
	page, err := NewHTTPExtractor(tabs).Extract(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Title != "OG Title" {
		t.Errorf("expected OpenGraph title, got %q", page.Title)
	}
	if page.TextContent != strings.TrimSpace(long) {
		t.Errorf("expected main content, got %q", page.TextContent)
	}
	if page.Excerpt != page.TextContent[:200] {
		t.Errorf("expected excerpt from first 200 chars, got %q", page.Excerpt)
	}
}

func TestExtractClipsLongPages(t *testing.T) {
	html := `<html><body><p>` + strings.Repeat("a", 25000) + `</p></body></html>`
	server := serveHTML(t, http.StatusOK, html)

	tabs := NewTabs()
	id := tabs.Open(server.URL)
	page, err := NewHTTPExtractor(tabs).Extract(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.TextContent) != 20000 || !page.Truncated || page.RawLength != 25000 {
		t.Errorf("expected clipped record, got len=%d truncated=%v raw=%d",
			len(page.TextContent), page.Truncated, page.RawLength)
	}
}

func TestExtractFailures(t *testing.T) {
	t.Run("unknown tab", func(t *testing.T) {
		_, err := NewHTTPExtractor(NewTabs()).Extract(context.Background(), 7)
		if got := reasonOf(t, err); got != MsgNoActiveTab {
			t.Errorf("expected %q, got %q", MsgNoActiveTab, got)
		}
	})

	for _, url := range []string{"chrome://settings", "chrome-extension://abc/panel.html", "edge://flags", "about:blank", "file:///etc/hosts", ""} {
		t.Run("internal "+url, func(t *testing.T) {
			_, err := extractURL(t, url)
			if got := reasonOf(t, err); got != MsgUnsupportedPage {
				t.Errorf("expected %q, got %q", MsgUnsupportedPage, got)
			}
		})
	}

	t.Run("http error", func(t *testing.T) {
		server := serveHTML(t, http.StatusNotFound, "<html><body>missing</body></html>")
		_, err := extractURL(t, server.URL)
		if got := reasonOf(t, err); got != MsgNoResponse {
			t.Errorf("expected %q, got %q", MsgNoResponse, got)
		}
	})

	t.Run("empty page", func(t *testing.T) {
		server := serveHTML(t, http.StatusOK, "<html><body><nav>only nav</nav><script>x()</script></body></html>")
		_, err := extractURL(t, server.URL)
		if got := reasonOf(t, err); got != MsgNoContent {
			t.Errorf("expected %q, got %q", MsgNoContent, got)
		}
	})

	t.Run("unresponsive", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(server.Close)

		_, err := extractURL(t, server.URL, WithFetchTimeout(50*time.Millisecond))
		if got := reasonOf(t, err); got != MsgFetchFailed {
			t.Errorf("expected %q, got %q", MsgFetchFailed, got)
		}
	})
}
