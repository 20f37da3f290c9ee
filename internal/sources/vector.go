// Package sources adapts the database repositories to the retrieval
// searcher interfaces, producing candidate documents with source-native
// scores.
package sources

import (
	"context"
	"fmt"
	"unicode/utf8"

	"ai-research-hub-be/internal/pkg/logger"
	"ai-research-hub-be/internal/repository/contract"
	"ai-research-hub-be/pkg/embedding"
	"ai-research-hub-be/pkg/store"
)

const snippetLimit = 600

// VectorSource embeds the query and searches chunk embeddings by cosine
// similarity.
type VectorSource struct {
	embedder embedding.EmbeddingProvider
	repo     contract.ChunkEmbeddingRepository
	log      logger.ILogger
}

func NewVectorSource(embedder embedding.EmbeddingProvider, repo contract.ChunkEmbeddingRepository, log logger.ILogger) *VectorSource {
	return &VectorSource{embedder: embedder, repo: repo, log: log}
}

func (s *VectorSource) Search(ctx context.Context, query store.Query, topK int) ([]store.CandidateDocument, error) {
	resp, err := s.embedder.Generate(ctx, query.Text(), "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	ranked, err := s.repo.SearchSimilarWithScore(ctx, resp.Values, topK, query.Filters)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	s.log.Debug("sources", "vector search returned candidates", map[string]interface{}{
		"count": len(ranked),
		"top_k": topK,
	})

	return toCandidates(ranked, store.SourceVector), nil
}

// toCandidates converts ranked chunks to candidate documents. The chunk
// ID is the cross-source dedupe key, so both searchers must use it.
func toCandidates(ranked []*contract.RankedChunk, source store.Source) []store.CandidateDocument {
	candidates := make([]store.CandidateDocument, 0, len(ranked))
	for i, rc := range ranked {
		snippet := cutAtRune(rc.Chunk.Content, snippetLimit)
		candidates = append(candidates, store.CandidateDocument{
			ID:      rc.Chunk.Id.String(),
			Source:  source,
			Score:   rc.Score,
			Rank:    i + 1,
			Title:   rc.PaperTitle,
			Snippet: snippet,
			Metadata: map[string]interface{}{
				"paper_id": rc.Chunk.PaperId.String(),
				"year":     rc.PaperYear,
				"category": rc.PaperCategory,
				"url":      rc.PaperURL,
			},
		})
	}
	return candidates
}

// cutAtRune caps the snippet at n bytes without splitting a multi-byte
// rune mid-character.
func cutAtRune(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
