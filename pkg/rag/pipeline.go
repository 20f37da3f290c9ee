// Package rag wires the query-time retrieval pipeline: rewrite, hybrid
// retrieval with rank fusion, reranking, agentic routing to live sources,
// grounded context building, and answer generation.
package rag

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-research-hub-be/pkg/rag/agent"
	"ai-research-hub-be/pkg/rag/rewrite"
	"ai-research-hub-be/pkg/store"
)

// Answer is the pipeline's terminal output for one query.
type Answer struct {
	QueryID     string
	Text        string
	Citations   []store.Citation
	Partial     bool
	Diagnostics []string
	Timings     map[agent.Stage]time.Duration
}

// Pipeline is the facade callers use; one instance serves concurrent
// queries because all per-query state lives in the orchestrator run.
type Pipeline struct {
	orchestrator *agent.Orchestrator
	logger       *log.Logger
}

func NewPipeline(
	rewriter agent.Rewriter,
	retriever agent.Retriever,
	reranker agent.Reranker,
	liveFetcher agent.LiveFetcher,
	builder agent.ContextBuilder,
	generator agent.Generator,
	config agent.Config,
	logger *log.Logger,
) *Pipeline {
	return &Pipeline{
		orchestrator: agent.NewOrchestrator(rewriter, retriever, reranker, liveFetcher, builder, generator, config, logger),
		logger:       logger,
	}
}

// AnswerQuery runs one raw user question through the full pipeline.
// budgetTokens <= 0 uses the configured default. The returned error, if
// any, carries a store.ErrorKind via store.KindOf.
func (p *Pipeline) AnswerQuery(ctx context.Context, rawText string, filters store.Filters, budgetTokens int) (*Answer, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, errors.New("query text is empty")
	}

	query := store.Query{
		Raw:        rawText,
		Normalized: rewrite.Normalize(rawText),
		Filters:    filters,
	}

	start := time.Now()
	result, err := p.orchestrator.Run(ctx, query, budgetTokens)
	if err != nil {
		return nil, fmt.Errorf("answer query: %w", err)
	}

	p.logger.Printf("[PIPELINE] Answered in %s (partial=%v, citations=%d)",
		time.Since(start).Round(time.Millisecond), result.Partial, len(result.Citations))

	return &Answer{
		QueryID:     result.QueryID,
		Text:        result.Answer,
		Citations:   result.Citations,
		Partial:     result.Partial,
		Diagnostics: result.Diagnostics,
		Timings:     result.Timings,
	}, nil
}
