package store

import "time"

// Source identifies which retrieval system produced a candidate.
type Source string

const (
	SourceVector Source = "vector"
	SourceText   Source = "text"
	SourceBlog   Source = "blog"
)

// Filters narrows retrieval to a publication year and/or category.
// Zero values mean "no filter".
type Filters struct {
	Year     int    `json:"year,omitempty"`
	Category string `json:"category,omitempty"`
}

// Query is the unit of work flowing through the pipeline.
// Once issued it is treated as immutable: the rewriter returns a new
// Query rather than mutating its input.
type Query struct {
	Raw        string  `json:"raw"`
	Normalized string  `json:"normalized"`
	Filters    Filters `json:"filters"`
}

// Text returns the best available form of the query for searching.
func (q Query) Text() string {
	if q.Normalized != "" {
		return q.Normalized
	}
	return q.Raw
}

// CandidateDocument is a single hit from one retrieval source, carrying
// the source-native score and the 1-based rank within that source's list.
// The ID is a chunk identifier that is stable across sources, so the same
// underlying document returned by both branches dedupes during fusion.
type CandidateDocument struct {
	ID       string                 `json:"id"`
	Source   Source                 `json:"source"`
	Score    float64                `json:"score"`
	Rank     int                    `json:"rank"`
	Title    string                 `json:"title"`
	Snippet  string                 `json:"snippet"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// FusedResult is a candidate after reciprocal rank fusion.
// SourceRanks records the 1-based rank the candidate held in each
// contributing source list.
type FusedResult struct {
	ID          string                 `json:"id"`
	Score       float64                `json:"score"`
	SourceRanks map[Source]int         `json:"source_ranks"`
	Rank        int                    `json:"rank"`
	Title       string                 `json:"title"`
	Snippet     string                 `json:"snippet"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// RerankedResult wraps a FusedResult with a finer-grained relevance score.
// Scored is false for tail candidates that were outside the rerank window
// (or whose scoring failed); those keep their fused order and their
// RerankScore is not comparable with scored ones.
type RerankedResult struct {
	FusedResult
	RerankScore float64 `json:"rerank_score"`
	Scored      bool    `json:"scored"`
}

// LiveSnippet is a piece of evidence fetched from an external live source
// (blog/news feed) at query time.
type LiveSnippet struct {
	SourceName  string    `json:"source_name"`
	Text        string    `json:"text"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// EvidenceItem is one entry in the orchestrator's accumulated evidence:
// either a reranked retrieval result or a live snippet, never both.
type EvidenceItem struct {
	Result  *RerankedResult `json:"result,omitempty"`
	Snippet *LiveSnippet    `json:"snippet,omitempty"`
}

// Citation attributes a context item back to its origin.
type Citation struct {
	SourceID string `json:"source_id"`
	Source   Source `json:"source"`
	Title    string `json:"title"`
	Locator  string `json:"locator,omitempty"`
}

// ContextItem is a (text, citation) pair with its measured token cost.
type ContextItem struct {
	Text     string   `json:"text"`
	Citation Citation `json:"citation"`
	Tokens   int      `json:"tokens"`
}

// ContextBundle is the token-bounded grounded context handed to generation.
// TotalTokens never exceeds BudgetTokens.
type ContextBundle struct {
	Items        []ContextItem `json:"items"`
	TotalTokens  int           `json:"total_tokens"`
	BudgetTokens int           `json:"budget_tokens"`
}

// Citations collects the citations of all included items in order.
func (b ContextBundle) Citations() []Citation {
	out := make([]Citation, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, it.Citation)
	}
	return out
}
