package response

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"ai-research-hub-be/pkg/llm"
	"ai-research-hub-be/pkg/store"
)

type fakeLLM struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if len(history) > 0 {
		f.lastPrompt = history[len(history)-1].Content
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

func bundleWith(texts ...string) store.ContextBundle {
	bundle := store.ContextBundle{BudgetTokens: 2000}
	for _, text := range texts {
		bundle.Items = append(bundle.Items, store.ContextItem{Text: text, Tokens: 10})
		bundle.TotalTokens += 10
	}
	return bundle
}

func TestGenerateEmptyBundleFails(t *testing.T) {
	g := NewGenerator(&fakeLLM{response: "anything"}, time.Second, log.New(os.Stderr, "", 0))

	_, err := g.Generate(context.Background(), store.Query{Raw: "q"}, store.ContextBundle{})
	if !errors.Is(err, store.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateGroundsPromptInContext(t *testing.T) {
	provider := &fakeLLM{response: "Answer citing [1]."}
	g := NewGenerator(provider, time.Second, log.New(os.Stderr, "", 0))

	answer, err := g.Generate(
		context.Background(),
		store.Query{Raw: "What is RLHF?", Normalized: "what is reinforcement learning from human feedback"},
		bundleWith("[1] Paper A\nsnippet a", "[2] Paper B\nsnippet b"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Answer citing [1]." {
		t.Errorf("unexpected answer: %q", answer)
	}

	for _, fragment := range []string{"<context>", "[1] Paper A", "[2] Paper B", "Question: What is RLHF?"} {
		if !strings.Contains(provider.lastPrompt, fragment) {
			t.Errorf("prompt missing %q:\n%s", fragment, provider.lastPrompt)
		}
	}
}

func TestGenerateLLMFailure(t *testing.T) {
	g := NewGenerator(&fakeLLM{err: errors.New("model down")}, time.Second, log.New(os.Stderr, "", 0))

	_, err := g.Generate(context.Background(), store.Query{Raw: "q"}, bundleWith("[1] A\na"))
	if !errors.Is(err, store.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}
