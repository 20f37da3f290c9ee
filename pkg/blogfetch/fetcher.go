// Package blogfetch pulls fresh announcements from research lab blogs as
// live evidence for queries the static corpus cannot answer.
package blogfetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"ai-research-hub-be/pkg/store"
)

const maxFeedBytes = 2 << 20

// Fetcher retrieves and parses the configured RSS/Atom feeds. One
// Fetcher is shared by all queries; every call is bounded by the caller's
// context.
type Fetcher struct {
	client  *http.Client
	sources map[string]string
	logger  *log.Logger
}

// NewFetcher builds a fetcher over a source-name to feed-URL map. The
// client timeout is a backstop; per-request deadlines come from ctx.
func NewFetcher(sources map[string]string, logger *log.Logger) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: 30 * time.Second},
		sources: sources,
		logger:  logger,
	}
}

// SourceNames lists the configured sources in deterministic order.
func (f *Fetcher) SourceNames() []string {
	names := make([]string, 0, len(f.sources))
	for name := range f.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FetchLive downloads one source's feed and returns up to limit entries,
// newest first.
func (f *Fetcher) FetchLive(ctx context.Context, sourceName string, limit int) ([]store.LiveSnippet, error) {
	feedURL, ok := f.sources[sourceName]
	if !ok {
		return nil, fmt.Errorf("unknown live source %q", sourceName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", "ai-research-hub/1.0 (+feed-reader)")
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s feed: %w", sourceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s feed: unexpected status %d", sourceName, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s feed: %w", sourceName, err)
	}

	entries, err := parseFeed(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s feed: %w", sourceName, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Published.After(entries[j].Published)
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	snippets := make([]store.LiveSnippet, 0, len(entries))
	for _, entry := range entries {
		text := entry.Title
		if summary := strings.TrimSpace(entry.Summary); summary != "" {
			text = entry.Title + ". " + summary
		}
		snippets = append(snippets, store.LiveSnippet{
			SourceName:  sourceName,
			Text:        text,
			URL:         entry.Link,
			PublishedAt: entry.Published,
		})
	}

	f.logger.Printf("[LIVEFETCH] %s: %d entries", sourceName, len(snippets))
	return snippets, nil
}
