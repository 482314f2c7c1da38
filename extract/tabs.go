// Package extract turns a tab's page into a model.PageRecord.
//
// Information Hiding:
// - Tab id allocation and URL bookkeeping hidden behind Tabs
// - HTML cleanup, fallback selection and clipping hidden behind Extractor
// - Network and parse failures reduced to a user-facing ExtractionError reason

package extract

import "sync"

// TabListener is notified when a tab's top-level URL changes or the tab closes.
type TabListener interface {
	OnNavigate(tabID int, newURL string)
	OnClose(tabID int)
}

// Tabs is a registry of open tabs and their current URLs.
type Tabs struct {
	mu        sync.RWMutex
	nextID    int
	urls      map[int]string
	listeners []TabListener
}

// NewTabs creates an empty registry. Tab ids start at 1.
func NewTabs() *Tabs {
	return &Tabs{urls: make(map[int]string)}
}

// Subscribe registers a listener for navigation and close events.
func (t *Tabs) Subscribe(l TabListener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// Open registers a new tab at url and returns its id.
func (t *Tabs) Open(url string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	t.urls[t.nextID] = url
	return t.nextID
}

// Navigate changes a tab's URL. Listeners are notified only when the URL
// actually changes. Returns false for an unknown tab.
func (t *Tabs) Navigate(tabID int, url string) bool {
	t.mu.Lock()
	old, ok := t.urls[tabID]
	if !ok {
		t.mu.Unlock()
		return false
	}
	t.urls[tabID] = url
	listeners := t.snapshot()
	t.mu.Unlock()

	if old != url {
		for _, l := range listeners {
			l.OnNavigate(tabID, url)
		}
	}
	return true
}

// Close removes a tab and notifies listeners.
func (t *Tabs) Close(tabID int) {
	t.mu.Lock()
	_, ok := t.urls[tabID]
	delete(t.urls, tabID)
	listeners := t.snapshot()
	t.mu.Unlock()

	if ok {
		for _, l := range listeners {
			l.OnClose(tabID)
		}
	}
}

// URL returns the tab's current URL.
func (t *Tabs) URL(tabID int) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	url, ok := t.urls[tabID]
	return url, ok
}

func (t *Tabs) snapshot() []TabListener {
	out := make([]TabListener, len(t.listeners))
	copy(out, t.listeners)
	return out
}
