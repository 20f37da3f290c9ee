package contextbuilder

import (
	"fmt"
	"log"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"ai-research-hub-be/pkg/store"
)

// Builder assembles the token-bounded grounded context handed to the
// generation call. Evidence is consumed in the order given (descending
// rank); an item whose cost would breach the budget is skipped whole so
// its citation is never half-lost.
type Builder struct {
	encoding *tiktoken.Tiktoken
	logger   *log.Logger
}

func NewBuilder(logger *log.Logger) *Builder {
	// cl100k_base covers the GPT-4 family used for generation. When the
	// encoding cannot load (offline first run), the chars/4 heuristic
	// keeps the builder working.
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Printf("[CONTEXT] tiktoken unavailable, falling back to heuristic counting: %v", err)
		encoding = nil
	}
	return &Builder{encoding: encoding, logger: logger}
}

// Build greedily packs evidence into a bundle without ever exceeding
// budgetTokens. Deterministic for identical evidence order and budget.
func (b *Builder) Build(evidence []store.EvidenceItem, budgetTokens int) store.ContextBundle {
	bundle := store.ContextBundle{BudgetTokens: budgetTokens}
	if budgetTokens <= 0 {
		return bundle
	}

	skipped := 0
	for i, item := range evidence {
		text, citation, ok := render(i+1, item)
		if !ok {
			continue
		}

		cost := b.CountTokens(text)
		if bundle.TotalTokens+cost > budgetTokens {
			skipped++
			continue
		}

		bundle.Items = append(bundle.Items, store.ContextItem{
			Text:     text,
			Citation: citation,
			Tokens:   cost,
		})
		bundle.TotalTokens += cost
	}

	b.logger.Printf("[CONTEXT] Bundled %d items (%d tokens of %d budget, %d skipped)",
		len(bundle.Items), bundle.TotalTokens, budgetTokens, skipped)

	return bundle
}

// CountTokens measures text cost in tokens.
func (b *Builder) CountTokens(text string) int {
	if b.encoding != nil {
		return len(b.encoding.Encode(text, nil, nil))
	}
	// Rough heuristic: ~4 chars per token for English text.
	n := (len(text) + 3) / 4
	if n == 0 && text != "" {
		n = 1
	}
	return n
}

// render formats one evidence item as a numbered context block and builds
// its citation.
func render(n int, item store.EvidenceItem) (string, store.Citation, bool) {
	switch {
	case item.Result != nil:
		res := item.Result
		header := res.Title
		if year, ok := res.Metadata["year"]; ok {
			header = fmt.Sprintf("%s (%v)", res.Title, year)
		}
		text := fmt.Sprintf("[%d] %s\n%s", n, header, strings.TrimSpace(res.Snippet))

		locator := ""
		if url, ok := res.Metadata["url"].(string); ok {
			locator = url
		}
		return text, store.Citation{
			SourceID: res.ID,
			Source:   dominantSource(res.SourceRanks),
			Title:    res.Title,
			Locator:  locator,
		}, true

	case item.Snippet != nil:
		snip := item.Snippet
		text := fmt.Sprintf("[%d] %s (%s, %s)\n%s",
			n, snip.SourceName, snip.URL, snip.PublishedAt.Format("2006-01-02"),
			strings.TrimSpace(snip.Text))
		return text, store.Citation{
			SourceID: snip.URL,
			Source:   store.SourceBlog,
			Title:    snip.SourceName,
			Locator:  snip.URL,
		}, true

	default:
		return "", store.Citation{}, false
	}
}

// dominantSource picks the best-ranked contributing source for citation
// attribution; vector wins ties for determinism.
func dominantSource(ranks map[store.Source]int) store.Source {
	best := store.SourceVector
	bestRank := 0
	for _, src := range []store.Source{store.SourceVector, store.SourceText} {
		if r, ok := ranks[src]; ok && (bestRank == 0 || r < bestRank) {
			best = src
			bestRank = r
		}
	}
	return best
}
