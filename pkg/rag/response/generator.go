package response

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"ai-research-hub-be/pkg/llm"
	"ai-research-hub-be/pkg/store"
)

const systemPrompt = `You are a research assistant answering questions about Large Language Model research.
Answer ONLY from the numbered context blocks provided. Cite the blocks you used as [n].
If the context does not contain the answer, say so instead of guessing.`

// Generator turns a grounded context bundle into an answer. This is the
// last stage before the reply leaves the pipeline; it never fabricates
// when the bundle is empty.
type Generator struct {
	llmProvider llm.LLMProvider
	timeout     time.Duration
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, timeout time.Duration, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		timeout:     timeout,
		logger:      logger,
	}
}

// Generate answers the query from the bundle. An empty bundle is the
// caller's bug (the orchestrator fails before generation when there is no
// evidence), so it is reported as a generation failure rather than an
// invented answer.
func (g *Generator) Generate(ctx context.Context, query store.Query, bundle store.ContextBundle) (string, error) {
	if len(bundle.Items) == 0 {
		return "", fmt.Errorf("%w: empty context bundle", store.ErrGenerationFailed)
	}

	llmCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	answer, err := g.llmProvider.Chat(llmCtx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: g.buildGroundedPrompt(query, bundle)},
	})
	if err != nil {
		g.logger.Printf("[GENERATION] LLM call failed: %v", err)
		return "", fmt.Errorf("%w: %v", store.ErrGenerationFailed, err)
	}

	g.logger.Printf("[GENERATION] Answer generated from %d context blocks (%d tokens)",
		len(bundle.Items), bundle.TotalTokens)

	return strings.TrimSpace(answer), nil
}

func (g *Generator) buildGroundedPrompt(query store.Query, bundle store.ContextBundle) string {
	var prompt strings.Builder

	prompt.WriteString("<context>\n")
	for _, item := range bundle.Items {
		prompt.WriteString(item.Text)
		prompt.WriteString("\n\n")
	}
	prompt.WriteString("</context>\n\n")

	prompt.WriteString("Question: ")
	prompt.WriteString(query.Raw)

	return prompt.String()
}
