package blogfetch

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// entry is one normalized feed item, independent of the feed dialect.
type entry struct {
	Title     string
	Link      string
	Summary   string
	Published time.Time
}

// rssFeed and atomFeed cover the subset of the two dialects the lab blogs
// actually emit.
type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string     `xml:"title"`
	Links   []atomLink `xml:"link"`
	Summary string     `xml:"summary"`
	Content string     `xml:"content"`
	Updated string     `xml:"updated"`
	Pub     string     `xml:"published"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// parseFeed tries RSS first, then Atom. Items missing a title are
// dropped; missing dates default to zero time so they sort last.
func parseFeed(body []byte) ([]entry, error) {
	var rss rssFeed
	if err := xml.Unmarshal(body, &rss); err == nil && len(rss.Channel.Items) > 0 {
		entries := make([]entry, 0, len(rss.Channel.Items))
		for _, item := range rss.Channel.Items {
			title := strings.TrimSpace(item.Title)
			if title == "" {
				continue
			}
			entries = append(entries, entry{
				Title:     title,
				Link:      strings.TrimSpace(item.Link),
				Summary:   stripTags(item.Description),
				Published: parseFeedTime(item.PubDate),
			})
		}
		return entries, nil
	}

	var atom atomFeed
	if err := xml.Unmarshal(body, &atom); err == nil && len(atom.Entries) > 0 {
		entries := make([]entry, 0, len(atom.Entries))
		for _, item := range atom.Entries {
			title := strings.TrimSpace(item.Title)
			if title == "" {
				continue
			}
			summary := item.Summary
			if summary == "" {
				summary = item.Content
			}
			published := item.Pub
			if published == "" {
				published = item.Updated
			}
			entries = append(entries, entry{
				Title:     title,
				Link:      pickAtomLink(item.Links),
				Summary:   stripTags(summary),
				Published: parseFeedTime(published),
			})
		}
		return entries, nil
	}

	return nil, fmt.Errorf("body is neither RSS nor Atom")
}

// pickAtomLink prefers the alternate link, falling back to the first.
func pickAtomLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "alternate" || l.Rel == "" {
			return strings.TrimSpace(l.Href)
		}
	}
	if len(links) > 0 {
		return strings.TrimSpace(links[0].Href)
	}
	return ""
}

var feedTimeLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02",
}

func parseFeedTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range feedTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// stripTags flattens the HTML fragments feeds put in summaries into plain
// text suitable for a context block.
func stripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
