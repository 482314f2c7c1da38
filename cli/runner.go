// Command execution for CLI commands.
//
// Information Hiding:
// - Dependency wiring (settings, tabs, cache, extractor, adapter) hidden
// - Environment seeding of the settings store hidden
// - Output formatting hidden

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/richinex/pagebrief/config"
	"github.com/richinex/pagebrief/extract"
	"github.com/richinex/pagebrief/internal/segment"
	"github.com/richinex/pagebrief/llm"
	"github.com/richinex/pagebrief/model"
	"github.com/richinex/pagebrief/orchestration"
	"github.com/richinex/pagebrief/storage"
)

// Options holds CLI execution options.
type Options struct {
	Provider string
	DBPath   string
	Verbose  bool
}

// SummarizeOptions holds options for the summarize command.
type SummarizeOptions struct {
	Tier      string
	Refresh   bool
	Selection string
}

// FailureError is returned when a request ends with a failure event.
type FailureError struct {
	model.Failure
}

func (e *FailureError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

// runtime is the wired set of collaborators for one CLI invocation. The
// extraction cache lives as long as the runtime, so only a session sees hits.
type runtime struct {
	cfg       config.Config
	log       zerolog.Logger
	settings  *storage.SqliteStorage
	tabs      *extract.Tabs
	cache     *storage.ExtractionCache
	extractor *extract.HTTPExtractor
	orch      *orchestration.Orchestrator
}

func newRuntime(ctx context.Context, opts Options, out, errOut io.Writer) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}

	level := cfg.Level()
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: errOut}).Level(level).With().Timestamp().Logger()

	settings, err := storage.OpenSqlite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if seed := cfg.SettingsSeed(); len(seed) > 0 {
		if err := settings.Set(ctx, seed); err != nil {
			settings.Close()
			return nil, fmt.Errorf("failed to seed settings: %w", err)
		}
	}

	adapter := llm.NewAdapter(
		llm.WithTimeout(cfg.Timeout),
		llm.WithLogger(log.With().Str("component", "llm").Logger()),
	)
	return assemble(cfg, log, settings, adapter, NewTerminalSink(out, errOut, opts.Verbose)), nil
}

// assemble wires tabs, cache, extractor and orchestrator around a settings
// store and a provider caller.
func assemble(cfg config.Config, log zerolog.Logger, settings *storage.SqliteStorage, caller orchestration.Caller, sink orchestration.Sink) *runtime {
	tabs := extract.NewTabs()
	cache := storage.NewExtractionCache(storage.WithInvalidateHook(func(tabID int, reason storage.InvalidateReason) {
		log.Debug().Int("tab", tabID).Str("reason", string(reason)).Msg("Extraction cache entry dropped")
	}))
	tabs.Subscribe(cache)

	extractor := extract.NewHTTPExtractor(tabs,
		extract.WithFetchTimeout(cfg.FetchTimeout),
		extract.WithLogger(log.With().Str("component", "extract").Logger()),
	)

	orch := orchestration.New(orchestration.Deps{
		Caller:    caller,
		Extractor: extractor,
		Settings:  settings,
		Tabs:      tabs,
		Cache:     cache,
		Sink:      sink,
	},
		orchestration.WithChunking(cfg.ChunkThreshold, cfg.ChunkSize),
		orchestration.WithBaseURL(llm.ProviderGemini, cfg.GeminiBaseURL),
		orchestration.WithBaseURL(llm.ProviderClaude, cfg.ClaudeBaseURL),
		orchestration.WithLogger(log.With().Str("component", "orchestration").Logger()),
	)

	return &runtime{
		cfg:       cfg,
		log:       log,
		settings:  settings,
		tabs:      tabs,
		cache:     cache,
		extractor: extractor,
		orch:      orch,
	}
}

func (r *runtime) Close() {
	if err := r.settings.Close(); err != nil {
		r.log.Warn().Err(err).Msg("Failed to close database")
	}
}

func (r *runtime) run(ctx context.Context, req model.RequestContext) error {
	ev := r.orch.Run(ctx, req)
	if f, ok := ev.Failure(); ok {
		return &FailureError{Failure: f}
	}
	return nil
}

// Summarize summarizes the page at url, or the given selection text.
func Summarize(ctx context.Context, url string, sopts SummarizeOptions, opts Options) error {
	req := model.RequestContext{
		Provider:     opts.Provider,
		Mode:         model.ModeSummary,
		Source:       model.SourcePage,
		ForceRefresh: sopts.Refresh,
	}
	if sopts.Tier != "" {
		tier, ok := model.ParseTier(sopts.Tier)
		if !ok {
			return fmt.Errorf("unknown tier %q (expected short, medium or detailed)", sopts.Tier)
		}
		req.Tier = tier
	}

	if sopts.Selection != "" {
		text, err := readSelection(sopts.Selection)
		if err != nil {
			return err
		}
		req.Source = model.SourceSelection
		req.SelectionText = text
		req.SelectionURL = url
	} else if url == "" {
		return fmt.Errorf("a URL or --selection is required")
	}

	rt, err := newRuntime(ctx, opts, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	if req.Source == model.SourcePage {
		req.TabID = rt.tabs.Open(url)
	}
	return rt.run(ctx, req)
}

// Ask answers a question about the page at url.
func Ask(ctx context.Context, url, question string, opts Options) error {
	rt, err := newRuntime(ctx, opts, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	return rt.run(ctx, model.RequestContext{
		Provider: opts.Provider,
		Mode:     model.ModeQA,
		Source:   model.SourcePage,
		Query:    question,
		TabID:    rt.tabs.Open(url),
	})
}

// Extract prints the extracted page record and its snippets.
func Extract(ctx context.Context, url string, showText bool, opts Options) error {
	rt, err := newRuntime(ctx, opts, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	page, err := rt.extractor.Extract(ctx, rt.tabs.Open(url))
	if err != nil {
		return err
	}

	fmt.Printf("Title:     %s\n", page.Title)
	fmt.Printf("URL:       %s\n", page.URL)
	if page.Lang != "" {
		fmt.Printf("Language:  %s\n", page.Lang)
	}
	fmt.Printf("Length:    %d chars", page.RawLength)
	if page.Truncated {
		fmt.Printf(" (truncated to %d)", model.MaxPageChars)
	}
	fmt.Printf("\nHash:      %s\n", page.Hash)

	snippets := segment.Snippets(page)
	if len(snippets) > 0 {
		fmt.Println("\nSnippets:")
		for _, s := range snippets {
			fmt.Printf("  - %s\n", s)
		}
	}
	if showText {
		fmt.Printf("\n%s\n", page.TextContent)
	}
	return nil
}

// ShowSettings prints the stored settings with keys masked.
func ShowSettings(ctx context.Context, opts Options) error {
	rt, err := newRuntime(ctx, opts, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	s, err := rt.settings.Get(ctx)
	if err != nil {
		return err
	}

	values := s.Map()
	values[storage.KeyGeminiKey] = maskKey(s.GeminiKey)
	values[storage.KeyClaudeKey] = maskKey(s.ClaudeKey)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-22s %s\n", k, values[k])
	}
	return nil
}

// SetSettings writes key=value pairs to the settings store.
func SetSettings(ctx context.Context, pairs []string, opts Options) error {
	values, err := parsePairs(pairs)
	if err != nil {
		return err
	}

	rt, err := newRuntime(ctx, opts, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.settings.Set(ctx, values); err != nil {
		return err
	}
	fmt.Printf("Saved %d setting(s).\n", len(values))
	return nil
}

// DeleteKey removes the stored API key for a provider.
func DeleteKey(ctx context.Context, provider string, opts Options) error {
	keyName, ok := storage.KeyName(provider)
	if !ok {
		return fmt.Errorf("unknown provider: %q (supported: %s)", provider, strings.Join(llm.SupportedProviders(), ", "))
	}

	rt, err := newRuntime(ctx, opts, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.settings.Remove(ctx, keyName); err != nil {
		return err
	}
	fmt.Printf("Deleted %s.\n", keyName)
	return nil
}

var settableKeys = map[string]bool{
	storage.KeyActiveProvider: true,
	storage.KeySummaryDefault: true,
	storage.KeyModelGemini:    true,
	storage.KeyModelClaude:    true,
	storage.KeyGeminiKey:      true,
	storage.KeyClaudeKey:      true,
	storage.KeyAutoSelection:  true,
}

func parsePairs(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q (expected key=value)", pair)
		}
		if !settableKeys[key] {
			return nil, fmt.Errorf("unknown setting %q", key)
		}
		value = strings.TrimSpace(value)
		switch key {
		case storage.KeyActiveProvider:
			canonical, ok := config.NormalizeProvider(value)
			if !ok {
				return nil, fmt.Errorf("unknown provider: %q", value)
			}
			value = canonical
		case storage.KeySummaryDefault:
			if _, ok := model.ParseTier(value); !ok {
				return nil, fmt.Errorf("unknown tier: %q", value)
			}
		}
		values[key] = value
	}
	return values, nil
}

func readSelection(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read selection from stdin: %w", err)
	}
	return string(data), nil
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "stored"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
