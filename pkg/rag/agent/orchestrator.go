package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"ai-research-hub-be/pkg/store"
)

// Stage dependencies. The orchestrator only sees these interfaces, so
// tests drive the full state machine with in-memory fakes.
type (
	Rewriter interface {
		Rewrite(ctx context.Context, query store.Query) (store.Query, error)
	}
	Retriever interface {
		Search(ctx context.Context, query store.Query, topK int) ([]store.FusedResult, bool, error)
	}
	Reranker interface {
		Rerank(ctx context.Context, query store.Query, candidates []store.FusedResult) ([]store.RerankedResult, error)
	}
	LiveFetcher interface {
		FetchLive(ctx context.Context, sourceName string, limit int) ([]store.LiveSnippet, error)
	}
	ContextBuilder interface {
		Build(evidence []store.EvidenceItem, budgetTokens int) store.ContextBundle
	}
	Generator interface {
		Generate(ctx context.Context, query store.Query, bundle store.ContextBundle) (string, error)
	}
)

// Config tunes one orchestrator instance.
type Config struct {
	TopK                int
	ConfidenceThreshold float64
	LiveFetchTimeout    time.Duration
	LiveFetchLimit      int
	LiveSources         []string
	BudgetTokens        int
}

// Result is the terminal output of a successful run.
type Result struct {
	Answer      string
	Citations   []store.Citation
	Partial     bool
	Diagnostics []string
	QueryID     string
	Timings     map[Stage]time.Duration
}

// Orchestrator walks one query through the fixed pipeline:
// rewrite, retrieve, rerank, evaluate, optionally fetch live data, build
// the grounded context, generate. Stage failures degrade the answer
// instead of aborting it; the run fails only when every evidence source
// came up empty or generation itself broke.
type Orchestrator struct {
	rewriter    Rewriter
	retriever   Retriever
	reranker    Reranker
	liveFetcher LiveFetcher
	builder     ContextBuilder
	generator   Generator
	config      Config
	logger      *log.Logger
}

func NewOrchestrator(
	rewriter Rewriter,
	retriever Retriever,
	reranker Reranker,
	liveFetcher LiveFetcher,
	builder ContextBuilder,
	generator Generator,
	config Config,
	logger *log.Logger,
) *Orchestrator {
	if config.BudgetTokens <= 0 {
		config.BudgetTokens = 2000
	}
	if config.LiveFetchLimit <= 0 {
		config.LiveFetchLimit = 5
	}
	sources := append([]string(nil), config.LiveSources...)
	sort.Strings(sources)
	config.LiveSources = sources
	return &Orchestrator{
		rewriter:    rewriter,
		retriever:   retriever,
		reranker:    reranker,
		liveFetcher: liveFetcher,
		builder:     builder,
		generator:   generator,
		config:      config,
		logger:      logger,
	}
}

// Run executes the state machine for a single query. budgetTokens <= 0
// falls back to the configured default.
func (o *Orchestrator) Run(ctx context.Context, query store.Query, budgetTokens int) (*Result, error) {
	if budgetTokens <= 0 {
		budgetTokens = o.config.BudgetTokens
	}

	state := NewState(query)
	o.logger.Printf("[AGENT] %s START query=%q", state.QueryID, query.Raw)

	query = o.rewrite(ctx, state, query)

	if err := ctx.Err(); err != nil {
		return nil, o.fail(state, err)
	}

	o.retrieve(ctx, state, query)

	if err := ctx.Err(); err != nil {
		return nil, o.fail(state, err)
	}

	decision := o.evaluate(state, query)

	if decision.NeedsLiveData {
		o.fetchLive(ctx, state, query)
	}

	if len(state.Evidence) == 0 {
		return nil, o.fail(state, fmt.Errorf("%w: retrieval and live fetch produced nothing", store.ErrNoEvidenceFound))
	}

	synth := StageSynthesizeDirect
	if state.SynthesisRequired {
		synth = StageSynthesizeCombined
	}
	done := state.enter(synth)
	bundle := o.builder.Build(state.Evidence, budgetTokens)
	answer, err := o.generator.Generate(ctx, query, bundle)
	done()
	if err != nil {
		return nil, o.fail(state, err)
	}

	state.Stage = StageDone
	o.logger.Printf("[AGENT] %s DONE evidence=%d partial=%v", state.QueryID, len(state.Evidence), state.Partial)

	return &Result{
		Answer:      answer,
		Citations:   bundle.Citations(),
		Partial:     state.Partial,
		Diagnostics: state.Diagnostics(),
		QueryID:     state.QueryID.String(),
		Timings:     state.StageTimings,
	}, nil
}

// rewrite runs the query rewriter; on failure retrieval proceeds with the
// normalized original text.
func (o *Orchestrator) rewrite(ctx context.Context, state *State, query store.Query) store.Query {
	defer state.enter(StageStart)()

	rewritten, err := o.rewriter.Rewrite(ctx, query)
	if err != nil {
		state.recordFailure(StageStart, store.KindRewriteUnavailable, err)
		o.logger.Printf("[AGENT] %s rewrite unavailable, using original text: %v", state.QueryID, err)
		return query
	}
	state.Query = rewritten
	return rewritten
}

// retrieve runs hybrid retrieval and reranking, feeding whatever survived
// into the evidence list.
func (o *Orchestrator) retrieve(ctx context.Context, state *State, query store.Query) {
	defer state.enter(StageRetrieve)()

	fused, partial, err := o.retriever.Search(ctx, query, o.config.TopK)
	if err != nil {
		state.recordFailure(StageRetrieve, store.KindRetrievalUnavailable, err)
		state.Partial = true
		o.logger.Printf("[AGENT] %s retrieval unavailable: %v", state.QueryID, err)
		return
	}
	if partial {
		state.Partial = true
	}

	reranked, err := o.reranker.Rerank(ctx, query, fused)
	if err != nil {
		// Advisory: the reranker already fell back to fused order.
		state.recordFailure(StageRetrieve, store.KindRerankFailed, err)
		state.Partial = true
	}

	for i := range reranked {
		state.Evidence = append(state.Evidence, store.EvidenceItem{Result: &reranked[i]})
	}
}

func (o *Orchestrator) evaluate(state *State, query store.Query) Decision {
	defer state.enter(StageEvaluate)()

	decision := Evaluate(query, state.RetrievedResults(), o.config.ConfidenceThreshold, o.config.LiveSources)
	state.NeedsLiveData = decision.NeedsLiveData
	if decision.NeedsLiveData {
		o.logger.Printf("[AGENT] %s routing to live fetch: %v", state.QueryID, decision.Reasons)
	}
	return decision
}

// fetchLive pulls fresh snippets from every configured live source. Each
// source failure is absorbed; losing live data only marks the answer
// partial when static evidence exists to fall back on.
func (o *Orchestrator) fetchLive(ctx context.Context, state *State, query store.Query) {
	defer state.enter(StageFetchLive)()

	if o.liveFetcher == nil || len(o.config.LiveSources) == 0 {
		state.recordFailure(StageFetchLive, store.KindLiveFetchFailed, errors.New("no live sources configured"))
		if len(state.Evidence) > 0 {
			state.Partial = true
		}
		return
	}

	fetchCtx, cancel := context.WithTimeout(ctx, o.config.LiveFetchTimeout)
	defer cancel()

	fetched := 0
	for _, source := range o.config.LiveSources {
		snippets, err := o.liveFetcher.FetchLive(fetchCtx, source, o.config.LiveFetchLimit)
		if err != nil {
			kind := store.KindLiveFetchFailed
			if errors.Is(err, context.DeadlineExceeded) {
				kind = store.KindLiveFetchTimeout
			}
			state.recordFailure(StageFetchLive, kind, fmt.Errorf("source %s: %w", source, err))
			continue
		}
		for i := range snippets {
			state.Evidence = append(state.Evidence, store.EvidenceItem{Snippet: &snippets[i]})
			fetched++
		}
	}

	if fetched > 0 {
		state.SynthesisRequired = true
	} else if len(state.Evidence) > 0 {
		state.Partial = true
	}
	o.logger.Printf("[AGENT] %s live fetch collected %d snippets from %d sources",
		state.QueryID, fetched, len(o.config.LiveSources))
}

func (o *Orchestrator) fail(state *State, err error) error {
	state.Stage = StageFailed
	o.logger.Printf("[AGENT] %s FAILED: %v", state.QueryID, err)
	return err
}
