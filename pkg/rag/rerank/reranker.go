package rerank

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"ai-research-hub-be/pkg/llm"
	"ai-research-hub-be/pkg/store"
)

// DefaultWindow bounds how many candidates are sent to the relevance
// model; everything past the window keeps its fused order.
const DefaultWindow = 50

const snippetLimit = 500

const rerankPrompt = `Given the query and documents below, rate each document's relevance to the query on a scale of 0 to 100.

Query: "%s"

Documents:
%s
Respond with ONLY one line per document in the form "number: score".
Example:
1: 85
2: 10
3: 62`

// Reranker re-scores fused candidates with an LLM-judged relevance score.
// Failures never abort the batch: an unscored candidate keeps its fused
// position, and a failed call leaves the whole window in fused order.
type Reranker struct {
	llmProvider llm.LLMProvider
	window      int
	timeout     time.Duration
	logger      *log.Logger
}

func NewReranker(llmProvider llm.LLMProvider, window int, timeout time.Duration, logger *log.Logger) *Reranker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Reranker{
		llmProvider: llmProvider,
		window:      window,
		timeout:     timeout,
		logger:      logger,
	}
}

// Rerank returns the candidates reordered by relevance score within the
// window, with ties falling back to fused rank, and the tail appended
// unchanged. The returned error is advisory (the fused order survives).
func (r *Reranker) Rerank(ctx context.Context, query store.Query, candidates []store.FusedResult) ([]store.RerankedResult, error) {
	if len(candidates) == 0 {
		return []store.RerankedResult{}, nil
	}

	window := r.window
	if window > len(candidates) {
		window = len(candidates)
	}

	head := passthrough(candidates[:window])
	tail := passthrough(candidates[window:])

	if r.llmProvider == nil {
		return append(head, tail...), nil
	}

	scores, err := r.scoreWindow(ctx, query, candidates[:window])
	if err != nil {
		r.logger.Printf("[RERANK] Scoring failed, keeping fused order: %v", err)
		return append(head, tail...), fmt.Errorf("rerank failed: %w", err)
	}

	var scored []store.RerankedResult
	for i := range head {
		if s, ok := scores[i]; ok {
			head[i].RerankScore = s
			head[i].Scored = true
			scored = append(scored, head[i])
		}
	}
	r.logger.Printf("[RERANK] Scored %d/%d window candidates", len(scored), window)

	// Relevance score orders the scored candidates; ties fall back to the
	// fused rank. Candidates the model skipped keep their fused position
	// in the window untouched.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].RerankScore != scored[j].RerankScore {
			return scored[i].RerankScore > scored[j].RerankScore
		}
		return scored[i].FusedResult.Rank < scored[j].FusedResult.Rank
	})

	reordered := make([]store.RerankedResult, len(head))
	next := 0
	for i := range head {
		if head[i].Scored {
			reordered[i] = scored[next]
			next++
		} else {
			reordered[i] = head[i]
		}
	}

	return append(reordered, tail...), nil
}

// scoreWindow asks the model for a 0-100 relevance rating per document and
// returns the parsed scores normalized to [0,1], keyed by window index.
func (r *Reranker) scoreWindow(ctx context.Context, query store.Query, window []store.FusedResult) (map[int]float64, error) {
	var docs strings.Builder
	for i, cand := range window {
		fmt.Fprintf(&docs, "\n[Doc %d]\n%s\n", i+1, cutAtRune(cand.Snippet, snippetLimit))
	}

	llmCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	response, err := r.llmProvider.Generate(
		llmCtx,
		fmt.Sprintf(rerankPrompt, query.Text(), docs.String()),
		llm.WithTemperature(0.1),
		llm.WithMaxTokens(400),
	)
	if err != nil {
		return nil, err
	}

	scores := parseScores(response, len(window))
	if len(scores) == 0 {
		return nil, fmt.Errorf("unparsable ranking output: %q", truncate(response, 120))
	}
	return scores, nil
}

// parseScores reads "number: score" lines, ignoring anything malformed.
// Indices are converted to 0-based; out-of-range entries are dropped.
func parseScores(response string, n int) map[int]float64 {
	scores := make(map[int]float64)
	for _, line := range strings.Split(response, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}
		idx, err := strconv.Atoi(strings.Trim(parts[0], "[]Doc. "))
		if err != nil {
			continue
		}
		raw, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		if idx < 1 || idx > n {
			continue
		}
		if raw < 0 {
			raw = 0
		}
		if raw > 100 {
			raw = 100
		}
		scores[idx-1] = raw / 100.0
	}
	return scores
}

func passthrough(candidates []store.FusedResult) []store.RerankedResult {
	out := make([]store.RerankedResult, len(candidates))
	for i, cand := range candidates {
		out[i] = store.RerankedResult{FusedResult: cand}
	}
	return out
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return cutAtRune(s, maxLen) + "..."
}

// cutAtRune caps s at n bytes without splitting a multi-byte rune.
func cutAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
