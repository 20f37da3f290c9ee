package agent

import (
	"testing"

	"ai-research-hub-be/pkg/store"
)

func scoredEvidence(score float64) []store.RerankedResult {
	return []store.RerankedResult{
		{FusedResult: store.FusedResult{ID: "a", Rank: 1}, RerankScore: score, Scored: true},
	}
}

func TestEvaluateTemporalMarkers(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantsLive bool
	}{
		{"latest", "latest advances in llm reasoning", true},
		{"this week", "what was announced this week", true},
		{"just released", "papers just released on moe", true},
		{"no marker", "how does chain of thought prompting work", false},
		{"marker inside a word", "benchmarks for todays strongest models", false},
		{"marker before question mark", "what did openai release this week?", true},
		{"marker before comma", "anything new recently, say since june", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Evaluate(store.Query{Normalized: tt.query}, scoredEvidence(0.9), 0.4, nil)
			if d.NeedsLiveData != tt.wantsLive {
				t.Errorf("Evaluate(%q).NeedsLiveData = %v, want %v (reasons %v)",
					tt.query, d.NeedsLiveData, tt.wantsLive, d.Reasons)
			}
		})
	}
}

func TestEvaluateNamedLiveSources(t *testing.T) {
	sources := []string{"openai", "anthropic"}

	d := Evaluate(store.Query{Normalized: "what did anthropic publish about interpretability"}, scoredEvidence(0.9), 0.4, sources)
	if !d.NeedsLiveData {
		t.Error("expected named source to route to live fetch")
	}

	d = Evaluate(store.Query{Normalized: "is there news from openai?"}, scoredEvidence(0.9), 0.4, sources)
	if !d.NeedsLiveData {
		t.Error("expected named source to match next to punctuation")
	}

	d = Evaluate(store.Query{Normalized: "how do transformers work"}, scoredEvidence(0.9), 0.4, sources)
	if d.NeedsLiveData {
		t.Errorf("unexpected live routing: %v", d.Reasons)
	}
}

func TestEvaluateLowConfidence(t *testing.T) {
	if d := Evaluate(store.Query{Normalized: "obscure question"}, scoredEvidence(0.2), 0.4, nil); !d.NeedsLiveData {
		t.Error("expected low-confidence routing")
	}
	if d := Evaluate(store.Query{Normalized: "well covered question"}, scoredEvidence(0.41), 0.4, nil); d.NeedsLiveData {
		t.Errorf("unexpected routing at score above threshold: %v", d.Reasons)
	}
}

func TestEvaluateEmptyEvidence(t *testing.T) {
	d := Evaluate(store.Query{Normalized: "anything"}, nil, 0.4, nil)
	if !d.NeedsLiveData {
		t.Error("expected live routing with no static evidence")
	}
}

func TestEvaluateUnscoredEvidenceSkipsThreshold(t *testing.T) {
	// Fused RRF scores live on a different scale than rerank scores, so an
	// unscored head must not be compared against the threshold.
	evidence := []store.RerankedResult{
		{FusedResult: store.FusedResult{ID: "a", Rank: 1, Score: 1.0 / 61}},
	}
	d := Evaluate(store.Query{Normalized: "plain question"}, evidence, 0.4, nil)
	if d.NeedsLiveData {
		t.Errorf("unscored evidence triggered live routing: %v", d.Reasons)
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	q := store.Query{Normalized: "latest anthropic research"}
	first := Evaluate(q, scoredEvidence(0.3), 0.4, []string{"anthropic"})
	for i := 0; i < 5; i++ {
		again := Evaluate(q, scoredEvidence(0.3), 0.4, []string{"anthropic"})
		if again.NeedsLiveData != first.NeedsLiveData || len(again.Reasons) != len(first.Reasons) {
			t.Fatalf("non-deterministic decision: %v vs %v", first, again)
		}
	}
}
