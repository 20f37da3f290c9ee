package retrieval

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"ai-research-hub-be/pkg/store"
)

// VectorSearcher runs an embedding-similarity search and returns
// candidates ranked best-first with source-native scores.
type VectorSearcher interface {
	Search(ctx context.Context, query store.Query, topK int) ([]store.CandidateDocument, error)
}

// TextSearcher runs a lexical full-text search and returns candidates
// ranked best-first with source-native scores.
type TextSearcher interface {
	Search(ctx context.Context, query store.Query, topK int) ([]store.CandidateDocument, error)
}

// Config encapsulates retrieval parameters.
type Config struct {
	TopK    int
	KConst  int
	Timeout time.Duration
}

// DefaultConfig returns default retrieval configuration.
func DefaultConfig() Config {
	return Config{
		TopK:    10,
		KConst:  DefaultKConst,
		Timeout: 2 * time.Second,
	}
}

// HybridRetriever fans a query out to the vector and text branches in
// parallel and fuses the ranked lists with reciprocal rank fusion.
type HybridRetriever struct {
	vector VectorSearcher
	text   TextSearcher
	config Config
	logger *log.Logger
}

func NewHybridRetriever(vector VectorSearcher, text TextSearcher, config Config, logger *log.Logger) *HybridRetriever {
	if config.TopK <= 0 {
		config.TopK = DefaultConfig().TopK
	}
	if config.KConst <= 0 {
		config.KConst = DefaultKConst
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	return &HybridRetriever{
		vector: vector,
		text:   text,
		config: config,
		logger: logger,
	}
}

// Search runs both branches concurrently, each under its own deadline.
// One branch failing degrades to the survivor's results with partial=true;
// both failing returns store.ErrRetrievalUnavailable. Both branches
// returning nothing is not an error: the caller gets an empty slice.
func (r *HybridRetriever) Search(ctx context.Context, query store.Query, topK int) (results []store.FusedResult, partial bool, err error) {
	if topK <= 0 {
		topK = r.config.TopK
	}

	var vectorHits, textHits []store.CandidateDocument
	var vectorErr, textErr error

	// errgroup funcs never return an error: branch failures degrade
	// instead of cancelling the sibling branch.
	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		branchCtx, cancel := context.WithTimeout(groupCtx, r.config.Timeout)
		defer cancel()
		vectorHits, vectorErr = r.vector.Search(branchCtx, query, topK)
		return nil
	})

	g.Go(func() error {
		branchCtx, cancel := context.WithTimeout(groupCtx, r.config.Timeout)
		defer cancel()
		textHits, textErr = r.text.Search(branchCtx, query, topK)
		return nil
	})

	_ = g.Wait()

	// Top-level cancellation beats the degrade policy.
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}

	if vectorErr != nil && textErr != nil {
		r.logger.Printf("[RETRIEVE] Both sources failed: vector=%v text=%v", vectorErr, textErr)
		return nil, false, fmt.Errorf("%w: vector: %v, text: %v", store.ErrRetrievalUnavailable, vectorErr, textErr)
	}

	if vectorErr != nil {
		r.logger.Printf("[RETRIEVE] Vector search failed, degrading to text only: %v", vectorErr)
		partial = true
	}
	if textErr != nil {
		r.logger.Printf("[RETRIEVE] Text search failed, degrading to vector only: %v", textErr)
		partial = true
	}

	fused := FuseByReciprocalRank(r.config.KConst, vectorHits, textHits)
	if len(fused) > topK {
		fused = fused[:topK]
	}

	r.logger.Printf("[RETRIEVE] %d vector + %d text hits fused to %d results (partial=%t)",
		len(vectorHits), len(textHits), len(fused), partial)

	return fused, partial, nil
}
