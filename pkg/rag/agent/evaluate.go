package agent

import (
	"fmt"
	"strings"

	"ai-research-hub-be/pkg/store"
)

// temporalMarkers are query terms that signal the user wants information
// newer than the static corpus.
var temporalMarkers = []string{
	"latest",
	"newest",
	"most recent",
	"recently",
	"this week",
	"this month",
	"this year",
	"today",
	"breaking",
	"just released",
	"just announced",
}

// Decision is the outcome of the EVALUATE routing step.
type Decision struct {
	NeedsLiveData bool
	Reasons       []string
}

// Evaluate is the pipeline's only branching point. It is a pure function
// of the rewritten query text and the retrieved evidence scores, so
// routing is unit-testable without I/O and identical inputs always route
// the same way.
//
// Live data is requested when the query carries a temporal marker or
// names a configured live source, when no static evidence was retrieved
// at all, or when the top reranked relevance score falls below the
// confidence threshold. Unscored evidence (rerank failed or skipped)
// carries an RRF-scale score that is not comparable with the threshold,
// so it never triggers the low-confidence route on its own.
func Evaluate(query store.Query, evidence []store.RerankedResult, threshold float64, liveSources []string) Decision {
	var decision Decision
	text := " " + bareWords(query.Text()) + " "

	for _, marker := range temporalMarkers {
		if strings.Contains(text, " "+marker+" ") {
			decision.NeedsLiveData = true
			decision.Reasons = append(decision.Reasons, "temporal marker: "+marker)
			break
		}
	}

	for _, source := range liveSources {
		source = strings.ToLower(source)
		if source != "" && strings.Contains(text, " "+source+" ") {
			decision.NeedsLiveData = true
			decision.Reasons = append(decision.Reasons, "named live source: "+source)
			break
		}
	}

	if len(evidence) == 0 {
		decision.NeedsLiveData = true
		decision.Reasons = append(decision.Reasons, "no static evidence retrieved")
		return decision
	}

	top := evidence[0]
	if top.Scored && top.RerankScore < threshold {
		decision.NeedsLiveData = true
		decision.Reasons = append(decision.Reasons,
			fmt.Sprintf("top relevance %.2f below threshold %.2f", top.RerankScore, threshold))
	}

	return decision
}

// bareWords strips punctuation clinging to token boundaries so markers
// match next to "?" or "," ("release this week?" still carries the
// "this week" marker).
func bareWords(text string) string {
	tokens := strings.Fields(strings.ToLower(text))
	for i, tok := range tokens {
		tokens[i] = strings.Trim(tok, ".,!?;:\"'()")
	}
	return strings.Join(tokens, " ")
}
