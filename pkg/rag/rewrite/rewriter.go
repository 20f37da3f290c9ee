package rewrite

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-research-hub-be/pkg/llm"
	"ai-research-hub-be/pkg/store"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultSynonyms maps short domain terms to their expanded form. A term
// is only expanded when the expansion is not already present, which keeps
// the rewrite a fixed point.
var DefaultSynonyms = map[string]string{
	"llm":  "large language model",
	"llms": "large language models",
	"rag":  "retrieval augmented generation",
	"cot":  "chain of thought",
	"rlhf": "reinforcement learning from human feedback",
	"moe":  "mixture of experts",
}

const rewritePrompt = `You are an expert at reformulating search queries for academic paper retrieval.

Original query: "%s"

Rewrite this query to be more specific, detailed, and better suited for semantic search in a database of Large Language Model research papers. Include relevant technical terms and concepts.

Return only the rewritten query, nothing else.`

// Rewriter normalizes and expands user queries. The LLM restatement is
// optional: when the provider is nil, fails, or times out, the normalized
// query is returned unchanged and the pipeline carries on.
type Rewriter struct {
	llmProvider llm.LLMProvider
	synonyms    map[string]string
	timeout     time.Duration
	cache       *gocache.Cache
	logger      *log.Logger
}

func NewRewriter(llmProvider llm.LLMProvider, timeout time.Duration, logger *log.Logger) *Rewriter {
	return &Rewriter{
		llmProvider: llmProvider,
		synonyms:    DefaultSynonyms,
		timeout:     timeout,
		cache:       gocache.New(30*time.Minute, 10*time.Minute),
		logger:      logger,
	}
}

// WithSynonyms replaces the synonym table (used by tests and custom deployments).
func (r *Rewriter) WithSynonyms(synonyms map[string]string) *Rewriter {
	r.synonyms = synonyms
	return r
}

// Rewrite returns a new Query with Normalized populated. The input is
// never mutated. The returned error is advisory: the query is always
// usable, the error only reports that the LLM restatement was skipped.
func (r *Rewriter) Rewrite(ctx context.Context, q store.Query) (store.Query, error) {
	normalized := r.expandSynonyms(Normalize(q.Text()))

	out := store.Query{Raw: q.Raw, Normalized: normalized, Filters: q.Filters}

	if r.llmProvider == nil {
		return out, nil
	}

	// Memoized so repeated questions (and repeated Rewrite calls on the
	// same query) resolve to the same text without another LLM round trip.
	if cached, found := r.cache.Get(normalized); found {
		out.Normalized = cached.(string)
		return out, nil
	}

	llmCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	restated, err := r.llmProvider.Generate(
		llmCtx,
		fmt.Sprintf(rewritePrompt, normalized),
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(200),
	)
	if err != nil {
		r.logger.Printf("[REWRITE] LLM restatement failed, keeping original: %v", err)
		return out, fmt.Errorf("rewrite unavailable: %w", err)
	}

	restated = Normalize(restated)
	if restated == "" || strings.Count(restated, "\n") > 0 || len(restated) > 400 {
		r.logger.Printf("[REWRITE] Discarding malformed restatement (%d chars)", len(restated))
		return out, nil
	}

	r.cache.Set(normalized, restated, gocache.DefaultExpiration)
	out.Normalized = restated
	return out, nil
}

// Normalize lowercases and collapses whitespace. Applying it twice yields
// the same text.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// expandSynonyms appends the expansion of every known short term found in
// the query, skipping expansions already present.
func (r *Rewriter) expandSynonyms(text string) string {
	tokens := strings.Fields(text)
	present := " " + text + " "

	var additions []string
	for _, tok := range tokens {
		expansion, ok := r.synonyms[strings.Trim(tok, ".,!?;:\"'()")]
		if !ok {
			continue
		}
		if strings.Contains(present, " "+expansion+" ") || containsAddition(additions, expansion) {
			continue
		}
		additions = append(additions, expansion)
	}

	if len(additions) == 0 {
		return text
	}
	return text + " " + strings.Join(additions, " ")
}

func containsAddition(additions []string, expansion string) bool {
	for _, a := range additions {
		if a == expansion {
			return true
		}
	}
	return false
}
