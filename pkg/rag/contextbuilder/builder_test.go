package contextbuilder

import (
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"ai-research-hub-be/pkg/store"
)

// heuristicBuilder avoids loading the tiktoken encoding so tests run
// offline with the chars/4 fallback.
func heuristicBuilder() *Builder {
	return &Builder{encoding: nil, logger: log.New(os.Stderr, "", 0)}
}

func resultEvidence(id, title, snippet string) store.EvidenceItem {
	return store.EvidenceItem{Result: &store.RerankedResult{
		FusedResult: store.FusedResult{
			ID:          id,
			Title:       title,
			Snippet:     snippet,
			SourceRanks: map[store.Source]int{store.SourceVector: 1},
		},
	}}
}

func TestBuildNeverExceedsBudget(t *testing.T) {
	evidence := []store.EvidenceItem{
		resultEvidence("a", "Paper A", strings.Repeat("x", 400)),
		resultEvidence("b", "Paper B", strings.Repeat("y", 400)),
		resultEvidence("c", "Paper C", strings.Repeat("z", 400)),
	}

	for _, budget := range []int{50, 120, 250, 1000} {
		bundle := heuristicBuilder().Build(evidence, budget)
		if bundle.TotalTokens > budget {
			t.Errorf("budget %d exceeded: %d tokens", budget, bundle.TotalTokens)
		}
		if bundle.BudgetTokens != budget {
			t.Errorf("budget not recorded: %d", bundle.BudgetTokens)
		}
	}
}

func TestBuildSkipsOversizedItemAndContinues(t *testing.T) {
	evidence := []store.EvidenceItem{
		resultEvidence("big", "Huge Paper", strings.Repeat("x", 4000)),
		resultEvidence("small", "Small Paper", "short snippet"),
	}

	bundle := heuristicBuilder().Build(evidence, 100)
	if len(bundle.Items) != 1 {
		t.Fatalf("expected only the small item, got %d", len(bundle.Items))
	}
	if bundle.Items[0].Citation.SourceID != "small" {
		t.Errorf("wrong item included: %q", bundle.Items[0].Citation.SourceID)
	}
}

func TestBuildPreservesEvidenceOrder(t *testing.T) {
	evidence := []store.EvidenceItem{
		resultEvidence("first", "A", "aa"),
		resultEvidence("second", "B", "bb"),
		resultEvidence("third", "C", "cc"),
	}

	bundle := heuristicBuilder().Build(evidence, 1000)
	citations := bundle.Citations()
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if citations[i].SourceID != id {
			t.Errorf("citation %d: got %q, want %q", i, citations[i].SourceID, id)
		}
	}
}

func TestBuildNumbersBlocksSequentially(t *testing.T) {
	evidence := []store.EvidenceItem{
		resultEvidence("a", "A", "aa"),
		resultEvidence("b", "B", "bb"),
	}

	bundle := heuristicBuilder().Build(evidence, 1000)
	if !strings.HasPrefix(bundle.Items[0].Text, "[1] ") || !strings.HasPrefix(bundle.Items[1].Text, "[2] ") {
		t.Errorf("blocks not numbered: %q, %q", bundle.Items[0].Text, bundle.Items[1].Text)
	}
}

func TestBuildRendersLiveSnippets(t *testing.T) {
	published := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	evidence := []store.EvidenceItem{
		{Snippet: &store.LiveSnippet{
			SourceName:  "anthropic",
			Text:        "New interpretability results",
			URL:         "https://www.anthropic.com/news/x",
			PublishedAt: published,
		}},
	}

	bundle := heuristicBuilder().Build(evidence, 1000)
	if len(bundle.Items) != 1 {
		t.Fatalf("expected one item, got %d", len(bundle.Items))
	}
	item := bundle.Items[0]
	if !strings.Contains(item.Text, "2026-08-20") {
		t.Errorf("publication date missing from %q", item.Text)
	}
	if item.Citation.Source != store.SourceBlog || item.Citation.Locator != "https://www.anthropic.com/news/x" {
		t.Errorf("unexpected citation: %+v", item.Citation)
	}
}

func TestBuildZeroBudget(t *testing.T) {
	bundle := heuristicBuilder().Build([]store.EvidenceItem{resultEvidence("a", "A", "aa")}, 0)
	if len(bundle.Items) != 0 || bundle.TotalTokens != 0 {
		t.Errorf("expected empty bundle, got %+v", bundle)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	evidence := []store.EvidenceItem{
		resultEvidence("a", "A", strings.Repeat("x", 300)),
		resultEvidence("b", "B", strings.Repeat("y", 300)),
	}

	first := heuristicBuilder().Build(evidence, 200)
	for i := 0; i < 3; i++ {
		again := heuristicBuilder().Build(evidence, 200)
		if len(again.Items) != len(first.Items) || again.TotalTokens != first.TotalTokens {
			t.Fatalf("non-deterministic bundle: %+v vs %+v", first, again)
		}
	}
}

func TestCountTokensHeuristic(t *testing.T) {
	b := heuristicBuilder()
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
	}
	for _, tt := range tests {
		if got := b.CountTokens(tt.text); got != tt.want {
			t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
