package rerank

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"ai-research-hub-be/pkg/llm"
	"ai-research-hub-be/pkg/store"
)

type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return f.Generate(ctx, "", options...)
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func fusedCandidates(ids ...string) []store.FusedResult {
	out := make([]store.FusedResult, len(ids))
	for i, id := range ids {
		out[i] = store.FusedResult{
			ID:      id,
			Rank:    i + 1,
			Score:   1.0 / float64(60+i+1),
			Snippet: "snippet " + id,
		}
	}
	return out
}

func newTestReranker(provider llm.LLMProvider, window int) *Reranker {
	return NewReranker(provider, window, time.Second, log.New(os.Stderr, "", 0))
}

func TestRerankNilProviderKeepsFusedOrder(t *testing.T) {
	r := newTestReranker(nil, 50)
	out, err := r.Rerank(context.Background(), store.Query{Raw: "q"}, fusedCandidates("a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, id := range []string{"a", "b", "c"} {
		if out[i].ID != id || out[i].Scored {
			t.Errorf("position %d: got %q scored=%v", i, out[i].ID, out[i].Scored)
		}
	}
}

func TestRerankReordersByScore(t *testing.T) {
	r := newTestReranker(&fakeLLM{response: "1: 20\n2: 95\n3: 50"}, 50)

	out, err := r.Rerank(context.Background(), store.Query{Raw: "q"}, fusedCandidates("a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"b", "c", "a"}
	for i, id := range want {
		if out[i].ID != id {
			t.Errorf("position %d: got %q, want %q", i, out[i].ID, id)
		}
		if !out[i].Scored {
			t.Errorf("position %d (%q): expected Scored", i, out[i].ID)
		}
	}
	if out[0].RerankScore != 0.95 {
		t.Errorf("expected normalized score 0.95, got %v", out[0].RerankScore)
	}
}

func TestRerankUnscoredCandidateKeepsPosition(t *testing.T) {
	// Model skips document 2; it must stay in slot 2 while the scored
	// candidates are ordered around it.
	r := newTestReranker(&fakeLLM{response: "1: 30\n3: 80"}, 50)

	out, err := r.Rerank(context.Background(), store.Query{Raw: "q"}, fusedCandidates("a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[1].ID != "b" || out[1].Scored {
		t.Fatalf("unscored candidate moved: %+v", out[1])
	}
	if out[0].ID != "c" || out[2].ID != "a" {
		t.Errorf("scored candidates misordered: %q, %q", out[0].ID, out[2].ID)
	}
}

func TestRerankWindowLeavesTailUntouched(t *testing.T) {
	r := newTestReranker(&fakeLLM{response: "1: 10\n2: 90"}, 2)

	out, err := r.Rerank(context.Background(), store.Query{Raw: "q"}, fusedCandidates("a", "b", "c", "d"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[0].ID != "b" || out[1].ID != "a" {
		t.Errorf("window misordered: %q, %q", out[0].ID, out[1].ID)
	}
	if out[2].ID != "c" || out[3].ID != "d" {
		t.Errorf("tail reordered: %q, %q", out[2].ID, out[3].ID)
	}
	if out[2].Scored || out[3].Scored {
		t.Error("tail candidates must not be marked scored")
	}
}

func TestRerankFailureFallsBackToFusedOrder(t *testing.T) {
	r := newTestReranker(&fakeLLM{err: errors.New("model down")}, 50)

	out, err := r.Rerank(context.Background(), store.Query{Raw: "q"}, fusedCandidates("a", "b"))
	if err == nil {
		t.Fatal("expected advisory error")
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "b" {
		t.Errorf("fused order not preserved: %v", out)
	}
}

func TestRerankTieBreaksByFusedRank(t *testing.T) {
	r := newTestReranker(&fakeLLM{response: "1: 70\n2: 70\n3: 70"}, 50)

	out, err := r.Rerank(context.Background(), store.Query{Raw: "q"}, fusedCandidates("a", "b", "c"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, id := range []string{"a", "b", "c"} {
		if out[i].ID != id {
			t.Errorf("tie break should keep fused order: position %d got %q", i, out[i].ID)
		}
	}
}

func TestRerankEmptyInput(t *testing.T) {
	r := newTestReranker(&fakeLLM{response: "1: 50"}, 50)
	out, err := r.Rerank(context.Background(), store.Query{Raw: "q"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty output, got %d", len(out))
	}
}

func TestParseScores(t *testing.T) {
	tests := []struct {
		name     string
		response string
		n        int
		want     map[int]float64
	}{
		{
			name:     "plain lines",
			response: "1: 85\n2: 10",
			n:        2,
			want:     map[int]float64{0: 0.85, 1: 0.10},
		},
		{
			name:     "doc-prefixed lines",
			response: "[Doc 1]: 40\nDoc 2: 60",
			n:        2,
			want:     map[int]float64{0: 0.40, 1: 0.60},
		},
		{
			name:     "malformed lines skipped",
			response: "here are the scores\n1: 85\nnot-a-line\n2: oops",
			n:        2,
			want:     map[int]float64{0: 0.85},
		},
		{
			name:     "out of range dropped and clamped",
			response: "0: 50\n1: 150\n5: 20",
			n:        2,
			want:     map[int]float64{0: 1.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseScores(tt.response, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for idx, score := range tt.want {
				if got[idx] != score {
					t.Errorf("index %d: got %v, want %v", idx, got[idx], score)
				}
			}
		})
	}
}

func TestRerankPromptKeepsRuneBoundaries(t *testing.T) {
	provider := &fakeLLM{response: "1: 90"}
	r := newTestReranker(provider, 50)

	// 200 three-byte runes = 600 bytes; the 500-byte cap lands mid-rune.
	candidates := []store.FusedResult{{ID: "a", Rank: 1, Snippet: strings.Repeat("界", 200)}}
	if _, err := r.Rerank(context.Background(), store.Query{Raw: "q"}, candidates); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utf8.ValidString(provider.lastPrompt) {
		t.Error("truncation split a rune in the scoring prompt")
	}
}

func TestCutAtRune(t *testing.T) {
	long := strings.Repeat("界", 200)
	cut := cutAtRune(long, snippetLimit)
	if len(cut) > snippetLimit {
		t.Errorf("cut length %d exceeds %d", len(cut), snippetLimit)
	}
	if !utf8.ValidString(cut) {
		t.Error("cut produced invalid UTF-8")
	}
	if got := cutAtRune("short", snippetLimit); got != "short" {
		t.Errorf("short string changed: %q", got)
	}
}
