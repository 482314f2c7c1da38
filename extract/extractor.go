package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/rs/zerolog"

	"github.com/richinex/pagebrief/model"
)

const (
	// DefaultFetchTimeout bounds a page fetch.
	DefaultFetchTimeout = 15 * time.Second

	// MinTextLength is the primary-text length below which fallback containers are tried.
	MinTextLength = 200

	maxPageBytes = 10 * 1024 * 1024
	excerptChars = 200
)

const (
	noiseSelector = "nav,header,footer,aside,script,style,noscript"
	userAgent     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var fallbackSelectors = []string{"#content", "main", "article", "#mw-content-text"}

var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "dl": true, "dt": true, "dd": true,
	"blockquote": true, "pre": true, "table": true, "tr": true, "figure": true,
	"figcaption": true, "br": true, "hr": true,
}

// Extractor produces a page record for a tab.
type Extractor interface {
	Extract(ctx context.Context, tabID int) (model.PageRecord, error)
}

// HTTPExtractor fetches the tab's URL and extracts readable text from the HTML.
type HTTPExtractor struct {
	tabs    *Tabs
	client  *http.Client
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// Option configures an HTTPExtractor.
type Option func(*HTTPExtractor)

// WithHTTPClient sets the client used for page fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(e *HTTPExtractor) {
		if c != nil {
			e.client = c
		}
	}
}

// WithFetchTimeout overrides DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(e *HTTPExtractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithNow sets the clock used to stamp records.
func WithNow(now func() time.Time) Option {
	return func(e *HTTPExtractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the extractor logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *HTTPExtractor) {
		e.log = log
	}
}

// NewHTTPExtractor creates an extractor reading tab URLs from tabs.
func NewHTTPExtractor(tabs *Tabs, opts ...Option) *HTTPExtractor {
	e := &HTTPExtractor{
		tabs: tabs,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		timeout: DefaultFetchTimeout,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsSupportedURL reports whether url is a normal http(s) page.
func IsSupportedURL(url string) bool {
	lower := strings.ToLower(strings.TrimSpace(url))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Extract fetches the tab's page. Failures are *ExtractionError.
func (e *HTTPExtractor) Extract(ctx context.Context, tabID int) (model.PageRecord, error) {
	url, ok := e.tabs.URL(tabID)
	if !ok {
		return model.PageRecord{}, failure(MsgNoActiveTab, nil)
	}
	if !IsSupportedURL(url) {
		return model.PageRecord{}, failure(MsgUnsupportedPage, nil)
	}

	body, err := e.fetch(ctx, url)
	if err != nil {
		e.log.Debug().Err(err).Int("tab", tabID).Str("url", url).Msg("Page fetch failed")
		return model.PageRecord{}, err
	}

	page, err := e.parse(url, body)
	if err != nil {
		e.log.Debug().Err(err).Int("tab", tabID).Str("url", url).Msg("Page parse failed")
		return model.PageRecord{}, err
	}

	e.log.Debug().
		Int("tab", tabID).
		Str("url", url).
		Int("chars", page.RawLength).
		Bool("truncated", page.Truncated).
		Msg("Page extracted")
	return page, nil
}

func (e *HTTPExtractor) fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, failure(MsgUnsupportedPage, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, failure(MsgFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, failure(MsgNoResponse, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		return nil, failure(MsgNoResponse, fmt.Errorf("unsupported content type: %s", contentType))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, failure(MsgFetchFailed, fmt.Errorf("failed to read response: %w", err))
	}
	return body, nil
}

func (e *HTTPExtractor) parse(url string, body []byte) (model.PageRecord, error) {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(bytes.NewReader(body)); err != nil {
		e.log.Debug().Err(err).Str("url", url).Msg("OpenGraph parse failed")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return model.PageRecord{}, failure(MsgNoContent, err)
	}

	title := strings.TrimSpace(og.Title)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	lang := strings.TrimSpace(doc.Find("html").AttrOr("lang", ""))
	if lang == "" {
		lang = og.Locale
	}

	doc.Find(noiseSelector).Remove()

	text := primaryText(doc)
	if len([]rune(text)) < MinTextLength {
		if fallback := fallbackText(doc); fallback != "" {
			text = fallback
		}
	}
	if text == "" {
		return model.PageRecord{}, failure(MsgNoContent, nil)
	}

	excerpt := strings.TrimSpace(og.Description)
	if excerpt == "" {
		excerpt = clip(text, excerptChars)
	}

	return model.NewPageRecord(url, title, text, excerpt, lang, e.now()), nil
}

func primaryText(doc *goquery.Document) string {
	if article := doc.Find("article").First(); article.Length() > 0 {
		if text := blockText(article); text != "" {
			return text
		}
	}
	return blockText(doc.Find("body").First())
}

func fallbackText(doc *goquery.Document) string {
	best := ""
	for _, selector := range fallbackSelectors {
		node := doc.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if text := blockText(node); len([]rune(text)) > len([]rune(best)) {
			best = text
		}
	}
	return best
}

// blockText renders a selection as paragraphs separated by blank lines.
func blockText(sel *goquery.Selection) string {
	var paragraphs []string
	var current strings.Builder

	flush := func() {
		if p := strings.Join(strings.Fields(current.String()), " "); p != "" {
			paragraphs = append(paragraphs, p)
		}
		current.Reset()
	}

	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			name := goquery.NodeName(child)
			switch {
			case name == "#text":
				current.WriteString(child.Text())
				current.WriteString(" ")
			case blockElements[name]:
				flush()
				walk(child)
				flush()
			default:
				walk(child)
			}
		})
	}
	walk(sel)
	flush()

	return strings.Join(paragraphs, "\n\n")
}

func clip(s string, n int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n])
}
