package storage

import (
	"sync"
	"time"

	"github.com/richinex/pagebrief/model"
)

// InvalidateReason says why a cache entry was dropped.
type InvalidateReason string

const (
	ReasonURLMismatch InvalidateReason = "url-mismatch"
	ReasonNavigated   InvalidateReason = "navigated"
	ReasonClosed      InvalidateReason = "closed"
	ReasonExpired     InvalidateReason = "expired"
	ReasonExplicit    InvalidateReason = "explicit"
)

type cacheEntry struct {
	url      string
	page     model.PageRecord
	storedAt time.Time
}

// ExtractionCache holds at most one extracted page per tab.
// A hit requires the exact URL the entry was stored under.
type ExtractionCache struct {
	mu           sync.Mutex
	entries      map[int]cacheEntry
	now          func() time.Time
	maxAge       time.Duration
	onInvalidate func(tabID int, reason InvalidateReason)
}

// CacheOption configures an ExtractionCache.
type CacheOption func(*ExtractionCache)

// WithClock sets the clock used to stamp entries.
func WithClock(now func() time.Time) CacheOption {
	return func(c *ExtractionCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMaxAge expires entries older than d on read. Zero disables expiry.
func WithMaxAge(d time.Duration) CacheOption {
	return func(c *ExtractionCache) {
		c.maxAge = d
	}
}

// WithInvalidateHook is called whenever an entry is dropped.
func WithInvalidateHook(fn func(tabID int, reason InvalidateReason)) CacheOption {
	return func(c *ExtractionCache) {
		c.onInvalidate = fn
	}
}

// NewExtractionCache creates an empty cache.
func NewExtractionCache(opts ...CacheOption) *ExtractionCache {
	c := &ExtractionCache{
		entries: make(map[int]cacheEntry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the page cached for tabID if it was stored under url.
// A URL mismatch or an expired entry discards the entry and misses.
func (c *ExtractionCache) Get(tabID int, url string) (model.PageRecord, bool) {
	c.mu.Lock()
	entry, ok := c.entries[tabID]
	if !ok {
		c.mu.Unlock()
		return model.PageRecord{}, false
	}

	var reason InvalidateReason
	switch {
	case entry.url != url:
		reason = ReasonURLMismatch
	case c.maxAge > 0 && c.now().Sub(entry.storedAt) > c.maxAge:
		reason = ReasonExpired
	default:
		c.mu.Unlock()
		return entry.page, true
	}

	delete(c.entries, tabID)
	c.mu.Unlock()
	c.notify(tabID, reason)
	return model.PageRecord{}, false
}

// Set stores page for tabID, replacing any previous entry.
func (c *ExtractionCache) Set(tabID int, url string, page model.PageRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[tabID] = cacheEntry{url: url, page: page, storedAt: c.now()}
}

// Invalidate drops the entry for tabID.
func (c *ExtractionCache) Invalidate(tabID int) {
	c.drop(tabID, ReasonExplicit)
}

// OnNavigate drops the entry for a tab whose top-level URL changed.
func (c *ExtractionCache) OnNavigate(tabID int, newURL string) {
	c.drop(tabID, ReasonNavigated)
}

// OnClose drops the entry for a closed tab.
func (c *ExtractionCache) OnClose(tabID int) {
	c.drop(tabID, ReasonClosed)
}

// Len returns the number of cached tabs.
func (c *ExtractionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ExtractionCache) drop(tabID int, reason InvalidateReason) {
	c.mu.Lock()
	_, ok := c.entries[tabID]
	delete(c.entries, tabID)
	c.mu.Unlock()

	if ok {
		c.notify(tabID, reason)
	}
}

func (c *ExtractionCache) notify(tabID int, reason InvalidateReason) {
	if c.onInvalidate != nil {
		c.onInvalidate(tabID, reason)
	}
}
