package blogfetch

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Lab Blog</title>
    <item>
      <title>Older announcement</title>
      <link>https://example.com/older</link>
      <description>&lt;p&gt;Some &lt;b&gt;HTML&lt;/b&gt; summary&lt;/p&gt;</description>
      <pubDate>Mon, 10 Aug 2026 09:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Newer announcement</title>
      <link>https://example.com/newer</link>
      <description>Plain summary</description>
      <pubDate>Thu, 20 Aug 2026 09:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

const sampleAtom = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Lab News</title>
  <entry>
    <title>Research update</title>
    <link rel="alternate" href="https://example.com/update"/>
    <summary>Short summary</summary>
    <published>2026-08-15T12:00:00Z</published>
  </entry>
  <entry>
    <title></title>
    <link href="https://example.com/untitled"/>
  </entry>
</feed>`

func TestParseFeedRSS(t *testing.T) {
	entries, err := parseFeed([]byte(sampleRSS))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Summary != "Some HTML summary" {
		t.Errorf("tags not stripped: %q", entries[0].Summary)
	}
	if entries[0].Published.IsZero() {
		t.Error("pubDate not parsed")
	}
}

func TestParseFeedAtom(t *testing.T) {
	entries, err := parseFeed([]byte(sampleAtom))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The untitled entry is dropped.
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Link != "https://example.com/update" {
		t.Errorf("alternate link not picked: %q", entries[0].Link)
	}
	if entries[0].Published.Format("2006-01-02") != "2026-08-15" {
		t.Errorf("published not parsed: %v", entries[0].Published)
	}
}

func TestParseFeedRejectsGarbage(t *testing.T) {
	if _, err := parseFeed([]byte("not xml at all")); err == nil {
		t.Error("expected an error for non-feed content")
	}
	if _, err := parseFeed([]byte("<html><body>nope</body></html>")); err == nil {
		t.Error("expected an error for non-feed XML")
	}
}

func TestFetchLiveReturnsNewestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := NewFetcher(map[string]string{"lab": srv.URL}, log.New(os.Stderr, "", 0))

	snippets, err := f.FetchLive(context.Background(), "lab", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %d", len(snippets))
	}
	if snippets[0].URL != "https://example.com/newer" {
		t.Errorf("expected newest first, got %q", snippets[0].URL)
	}
	if snippets[0].SourceName != "lab" {
		t.Errorf("source name not set: %q", snippets[0].SourceName)
	}
}

func TestFetchLiveHonorsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := NewFetcher(map[string]string{"lab": srv.URL}, log.New(os.Stderr, "", 0))

	snippets, err := f.FetchLive(context.Background(), "lab", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snippets) != 1 {
		t.Errorf("expected 1 snippet, got %d", len(snippets))
	}
}

func TestFetchLiveUnknownSource(t *testing.T) {
	f := NewFetcher(map[string]string{}, log.New(os.Stderr, "", 0))
	if _, err := f.FetchLive(context.Background(), "nope", 5); err == nil {
		t.Error("expected an error for an unknown source")
	}
}

func TestFetchLiveStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFetcher(map[string]string{"lab": srv.URL}, log.New(os.Stderr, "", 0))
	if _, err := f.FetchLive(context.Background(), "lab", 5); err == nil {
		t.Error("expected an error for a 503 response")
	}
}

func TestFetchLiveContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := NewFetcher(map[string]string{"lab": srv.URL}, log.New(os.Stderr, "", 0))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := f.FetchLive(ctx, "lab", 5); err == nil {
		t.Error("expected a deadline error")
	}
}

func TestSourceNamesSorted(t *testing.T) {
	f := NewFetcher(map[string]string{"openai": "u1", "anthropic": "u2"}, log.New(os.Stderr, "", 0))
	names := f.SourceNames()
	if len(names) != 2 || names[0] != "anthropic" || names[1] != "openai" {
		t.Errorf("expected sorted names, got %v", names)
	}
}
