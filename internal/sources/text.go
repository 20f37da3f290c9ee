package sources

import (
	"context"
	"fmt"

	"ai-research-hub-be/internal/pkg/logger"
	"ai-research-hub-be/internal/repository/contract"
	"ai-research-hub-be/pkg/store"
)

// TextSource searches chunk content with Postgres full-text search.
type TextSource struct {
	repo contract.PaperChunkRepository
	log  logger.ILogger
}

func NewTextSource(repo contract.PaperChunkRepository, log logger.ILogger) *TextSource {
	return &TextSource{repo: repo, log: log}
}

func (s *TextSource) Search(ctx context.Context, query store.Query, topK int) ([]store.CandidateDocument, error) {
	ranked, err := s.repo.SearchText(ctx, query.Text(), topK, query.Filters)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	s.log.Debug("sources", "text search returned candidates", map[string]interface{}{
		"count": len(ranked),
		"top_k": topK,
	})

	return toCandidates(ranked, store.SourceText), nil
}
