package extract

import "testing"

type recordingListener struct {
	navigated []string
	closed    []int
}

func (r *recordingListener) OnNavigate(tabID int, newURL string) {
	r.navigated = append(r.navigated, newURL)
}

func (r *recordingListener) OnClose(tabID int) {
	r.closed = append(r.closed, tabID)
}

func TestTabsLifecycle(t *testing.T) {
	tabs := NewTabs()
	listener := &recordingListener{}
	tabs.Subscribe(listener)

	id := tabs.Open("https://a.example/")
	if id != 1 {
		t.Errorf("expected first tab id 1, got %d", id)
	}
	if second := tabs.Open("https://b.example/"); second != 2 {
		t.Errorf("expected second tab id 2, got %d", second)
	}

	if !tabs.Navigate(id, "https://a.example/") {
		t.Fatal("expected navigate on known tab to succeed")
	}
	if len(listener.navigated) != 0 {
		t.Errorf("same URL should not notify, got %v", listener.navigated)
	}

	tabs.Navigate(id, "https://c.example/")
	if len(listener.navigated) != 1 || listener.navigated[0] != "https://c.example/" {
		t.Errorf("expected one navigation to c, got %v", listener.navigated)
	}
	if url, _ := tabs.URL(id); url != "https://c.example/" {
		t.Errorf("expected updated URL, got %q", url)
	}

	if tabs.Navigate(99, "https://x.example/") {
		t.Error("expected navigate on unknown tab to fail")
	}

	tabs.Close(id)
	tabs.Close(id)
	if len(listener.closed) != 1 || listener.closed[0] != id {
		t.Errorf("expected a single close notification, got %v", listener.closed)
	}
	if _, ok := tabs.URL(id); ok {
		t.Error("expected closed tab to be gone")
	}
}
