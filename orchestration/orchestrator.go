// Package orchestration drives a single summarize or question request from
// source resolution to a terminal event.
//
// Information Hiding:
// - Source resolution (selection, cache, extraction) hidden behind Run
// - Chunked summarization and prompt wording hidden
// - Provider failures reduced to a user-facing message plus status and debug

package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/richinex/pagebrief/extract"
	"github.com/richinex/pagebrief/internal/segment"
	"github.com/richinex/pagebrief/llm"
	"github.com/richinex/pagebrief/model"
	"github.com/richinex/pagebrief/storage"
)

const (
	// DefaultChunkThreshold is the content length above which summaries are chunked.
	DefaultChunkThreshold = 10000
	// DefaultChunkSize is the maximum chunk length.
	DefaultChunkSize = 6000

	selectionTitle = "Selection"
)

// Caller issues one provider call. *llm.Adapter implements it.
type Caller interface {
	Call(ctx context.Context, provider llm.ProviderType, prompt string, creds llm.Credentials) (llm.Response, error)
}

// SettingsReader reads settings. The orchestrator never writes them.
type SettingsReader interface {
	Get(ctx context.Context) (storage.Settings, error)
}

// PageCache memoizes extraction per tab. *storage.ExtractionCache implements it.
type PageCache interface {
	Get(tabID int, url string) (model.PageRecord, bool)
	Set(tabID int, url string, page model.PageRecord)
}

// TabURLs resolves a tab's current URL. *extract.Tabs implements it.
type TabURLs interface {
	URL(tabID int) (string, bool)
}

// Deps are the collaborators of an Orchestrator. Tabs and Cache are optional;
// without both, every page request extracts.
type Deps struct {
	Caller    Caller
	Extractor extract.Extractor
	Settings  SettingsReader
	Tabs      TabURLs
	Cache     PageCache
	Sink      Sink
}

// Orchestrator runs requests one at a time.
type Orchestrator struct {
	deps      Deps
	threshold int
	chunkSize int
	baseURLs  map[llm.ProviderType]string
	now       func() time.Time
	newID     func() string
	log       zerolog.Logger

	mu sync.Mutex
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithChunking overrides DefaultChunkThreshold and DefaultChunkSize.
func WithChunking(threshold, size int) Option {
	return func(o *Orchestrator) {
		if threshold > 0 {
			o.threshold = threshold
		}
		if size > 0 {
			o.chunkSize = size
		}
	}
}

// WithBaseURL points a provider at a different endpoint.
func WithBaseURL(provider llm.ProviderType, url string) Option {
	return func(o *Orchestrator) {
		if url != "" {
			o.baseURLs[provider] = url
		}
	}
}

// WithClock sets the clock used to stamp selection records.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator sets the request id generator.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.log = log
	}
}

// New creates an orchestrator.
func New(deps Deps, opts ...Option) *Orchestrator {
	if deps.Sink == nil {
		deps.Sink = SinkFunc(discard)
	}
	o := &Orchestrator{
		deps:      deps,
		threshold: DefaultChunkThreshold,
		chunkSize: DefaultChunkSize,
		baseURLs:  make(map[llm.ProviderType]string),
		now:       time.Now,
		newID:     uuid.NewString,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// request carries per-request state through the pipeline.
type request struct {
	model.RequestContext
	id  string
	log zerolog.Logger
}

// Run executes one request and returns its terminal event, which has also
// been emitted to the sink. A Run issued while another is outstanding fails
// immediately.
func (o *Orchestrator) Run(ctx context.Context, rc model.RequestContext) Event {
	req := request{RequestContext: rc, id: o.newID()}
	req.log = o.log.With().Str("request_id", req.id).Logger()

	if !o.mu.TryLock() {
		req.log.Debug().Msg("Rejected: request already in progress")
		return o.finish(failureEvent(req.id, model.Failure{Message: MsgBusy}))
	}
	defer o.mu.Unlock()

	result, err := o.run(ctx, req)
	if err != nil {
		failure := failureFor(err)
		req.log.Debug().Err(err).Str("state", "failed").Msg(failure.Message)
		return o.finish(failureEvent(req.id, failure))
	}

	req.log.Debug().
		Str("state", "done").
		Int("chunks", result.Metadata.Chunks).
		Int("snippets", len(result.Snippets)).
		Msg("Request complete")
	return o.finish(resultEvent(req.id, result))
}

func (o *Orchestrator) finish(ev Event) Event {
	o.deps.Sink.Emit(ev)
	return ev
}

func (o *Orchestrator) run(ctx context.Context, req request) (model.Result, error) {
	req.log.Debug().
		Str("state", "resolving-source").
		Str("source", string(req.Source)).
		Str("mode", string(req.Mode)).
		Msg("Resolving source")
	page, err := o.resolveSource(ctx, req)
	if err != nil {
		return model.Result{}, err
	}

	req.log.Debug().Str("state", "resolving-key").Msg("Resolving credentials")
	provider, creds, tier, err := o.resolveKey(ctx, req)
	if err != nil {
		return model.Result{}, err
	}

	meta := model.Metadata{
		Provider:  provider.String(),
		Mode:      req.Mode,
		Truncated: page.Truncated,
	}

	var text string
	if req.Mode == model.ModeSummary && len([]rune(page.TextContent)) > o.threshold {
		req.log.Debug().Str("state", "chunked").Msg("Dispatching")
		text, meta.Chunks, err = o.summarizeChunked(ctx, req, provider, creds, tier, page.TextContent)
	} else {
		req.log.Debug().Str("state", "single-call").Msg("Dispatching")
		text, err = o.call(ctx, req, provider, creds, o.singlePrompt(req, tier, page.TextContent))
	}
	if err != nil {
		return model.Result{}, err
	}

	return model.Result{
		Text:     text,
		Snippets: segment.Snippets(page),
		Metadata: meta,
	}, nil
}

func (o *Orchestrator) resolveSource(ctx context.Context, req request) (model.PageRecord, error) {
	if req.Source == model.SourceSelection {
		text := strings.TrimSpace(req.SelectionText)
		if text == "" {
			return model.PageRecord{}, &InputError{Message: MsgMissingSelection}
		}
		title := req.SelectionTitle
		if title == "" {
			title = selectionTitle
		}
		return model.NewPageRecord(req.SelectionURL, title, text, "", "", o.now()), nil
	}

	url, known := "", false
	if o.deps.Tabs != nil {
		url, known = o.deps.Tabs.URL(req.TabID)
	}
	cacheable := known && o.deps.Cache != nil

	if cacheable && !req.ForceRefresh {
		if page, ok := o.deps.Cache.Get(req.TabID, url); ok {
			req.log.Debug().Int("tab", req.TabID).Str("url", url).Msg("Extraction cache hit")
			return page, nil
		}
	}

	page, err := o.deps.Extractor.Extract(ctx, req.TabID)
	if err != nil {
		o.deps.Sink.Emit(Event{
			Type:      EventExtractError,
			RequestID: req.id,
			Message:   failureFor(err).Message,
		})
		return model.PageRecord{}, err
	}

	if cacheable {
		o.deps.Cache.Set(req.TabID, url, page)
	}
	o.deps.Sink.Emit(Event{Type: EventExtracted, RequestID: req.id, Page: &page})
	return page, nil
}

func (o *Orchestrator) resolveKey(ctx context.Context, req request) (llm.ProviderType, llm.Credentials, model.Tier, error) {
	settings, err := o.deps.Settings.Get(ctx)
	if err != nil {
		return 0, llm.Credentials{}, "", &InputError{Message: MsgSettingsUnavailable, Cause: err}
	}

	name := req.Provider
	if name == "" {
		name = settings.ActiveProvider
	}
	key := settings.KeyFor(name)
	if key == "" {
		return 0, llm.Credentials{}, "", &InputError{Message: MsgMissingKey}
	}
	provider, err := llm.ParseProviderType(name)
	if err != nil {
		return 0, llm.Credentials{}, "", &InputError{Message: MsgMissingKey, Cause: err}
	}

	if req.Mode == model.ModeQA && strings.TrimSpace(req.Query) == "" {
		return 0, llm.Credentials{}, "", &InputError{Message: MsgMissingQuestion}
	}

	tier := req.Tier
	if tier == "" {
		if parsed, ok := model.ParseTier(settings.SummaryDefault); ok {
			tier = parsed
		} else {
			tier = model.TierShort
		}
	}

	creds := llm.Credentials{
		APIKey:  key,
		Model:   settings.ModelFor(name),
		BaseURL: o.baseURLs[provider],
	}
	return provider, creds, tier, nil
}

func (o *Orchestrator) singlePrompt(req request, tier model.Tier, text string) string {
	if req.Mode == model.ModeQA {
		return qaPrompt(strings.TrimSpace(req.Query), req.Source, text)
	}
	return summaryPrompt(tier, req.Source, text)
}

// summarizeChunked summarizes each chunk in order, then combines the
// summaries. The first failing chunk aborts the request.
func (o *Orchestrator) summarizeChunked(
	ctx context.Context,
	req request,
	provider llm.ProviderType,
	creds llm.Credentials,
	tier model.Tier,
	text string,
) (string, int, error) {
	chunks := segment.Chunk(text, o.chunkSize)
	total := len(chunks)
	summaries := make([]string, 0, total)

	for i, chunk := range chunks {
		o.progress(req, fmt.Sprintf("Summarizing chunk %d/%d...", i+1, total))
		summary, err := o.call(ctx, req, provider, creds, chunkPrompt(i+1, total, req.Source, chunk))
		if err != nil {
			return "", total, &ChunkError{Index: i + 1, Total: total, Err: err}
		}
		summaries = append(summaries, strings.TrimSpace(summary))
	}

	o.progress(req, "Combining chunk summaries...")
	final, err := o.call(ctx, req, provider, creds, combinePrompt(tier, summaries))
	if err != nil {
		return "", total, err
	}
	return final, total, nil
}

func (o *Orchestrator) call(ctx context.Context, req request, provider llm.ProviderType, creds llm.Credentials, prompt string) (string, error) {
	resp, err := o.deps.Caller.Call(ctx, provider, prompt, creds)
	if err != nil {
		status := "no-status"
		if f := failureFor(err); f.Status != 0 {
			status = fmt.Sprint(f.Status)
		}
		req.log.Warn().Str("provider", provider.String()).Str("status", status).Msg("LLM call failed")
		return "", err
	}
	return resp.Text, nil
}

func (o *Orchestrator) progress(req request, message string) {
	req.log.Debug().Str("progress", message).Send()
	o.deps.Sink.Emit(Event{Type: EventProgress, RequestID: req.id, Message: message})
}
