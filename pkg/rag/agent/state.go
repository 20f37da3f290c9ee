package agent

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-research-hub-be/pkg/store"
)

// Stage is the orchestrator's position in the pipeline state machine.
type Stage string

const (
	StageStart              Stage = "START"
	StageRetrieve           Stage = "RETRIEVE"
	StageEvaluate           Stage = "EVALUATE"
	StageSynthesizeDirect   Stage = "SYNTHESIZE_DIRECT"
	StageFetchLive          Stage = "FETCH_LIVE"
	StageSynthesizeCombined Stage = "SYNTHESIZE_COMBINED"
	StageDone               Stage = "DONE"
	StageFailed             Stage = "FAILED"
)

// Failure is one absorbed, non-fatal error recorded while the query kept
// going.
type Failure struct {
	Stage  Stage
	Kind   store.ErrorKind
	Detail string
}

// State carries everything the orchestrator knows about one query. A
// State serves exactly one query and is discarded afterwards; concurrent
// queries each get their own instance.
type State struct {
	QueryID  uuid.UUID
	Stage    Stage
	Query    store.Query
	Evidence []store.EvidenceItem

	NeedsLiveData     bool
	SynthesisRequired bool
	Partial           bool

	Failures     []Failure
	StageTimings map[Stage]time.Duration
}

func NewState(query store.Query) *State {
	return &State{
		QueryID:      uuid.New(),
		Stage:        StageStart,
		Query:        query,
		StageTimings: make(map[Stage]time.Duration),
	}
}

func (s *State) enter(stage Stage) func() {
	s.Stage = stage
	start := time.Now()
	return func() {
		s.StageTimings[stage] += time.Since(start)
	}
}

func (s *State) recordFailure(stage Stage, kind store.ErrorKind, err error) {
	s.Failures = append(s.Failures, Failure{
		Stage:  stage,
		Kind:   kind,
		Detail: err.Error(),
	})
}

// Diagnostics renders the accumulated failures for the caller.
func (s *State) Diagnostics() []string {
	out := make([]string, 0, len(s.Failures))
	for _, f := range s.Failures {
		out = append(out, fmt.Sprintf("%s/%s: %s", f.Stage, f.Kind, f.Detail))
	}
	return out
}

// RetrievedResults returns the reranked retrieval evidence (excluding
// live snippets), in evidence order.
func (s *State) RetrievedResults() []store.RerankedResult {
	var out []store.RerankedResult
	for _, item := range s.Evidence {
		if item.Result != nil {
			out = append(out, *item.Result)
		}
	}
	return out
}
