package retrieval

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"ai-research-hub-be/pkg/store"
)

type fakeSearcher struct {
	hits  []store.CandidateDocument
	err   error
	delay time.Duration
}

func (f *fakeSearcher) Search(ctx context.Context, query store.Query, topK int) ([]store.CandidateDocument, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func newTestRetriever(vector, text *fakeSearcher) *HybridRetriever {
	return NewHybridRetriever(vector, text, Config{
		TopK:    10,
		KConst:  60,
		Timeout: 200 * time.Millisecond,
	}, log.New(os.Stderr, "", 0))
}

func TestSearchFusesBothBranches(t *testing.T) {
	vector := &fakeSearcher{hits: candidateList(store.SourceVector, "a", "b")}
	text := &fakeSearcher{hits: candidateList(store.SourceText, "b", "c")}

	results, partial, err := newTestRetriever(vector, text).Search(context.Background(), store.Query{Raw: "q"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if partial {
		t.Error("expected complete result")
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].ID != "b" {
		t.Errorf("expected corroborated result first, got %q", results[0].ID)
	}
}

func TestSearchDegradesWhenOneBranchFails(t *testing.T) {
	tests := []struct {
		name   string
		vector *fakeSearcher
		text   *fakeSearcher
		wantID string
	}{
		{
			name:   "vector down",
			vector: &fakeSearcher{err: errors.New("pgvector down")},
			text:   &fakeSearcher{hits: candidateList(store.SourceText, "t1")},
			wantID: "t1",
		},
		{
			name:   "text down",
			vector: &fakeSearcher{hits: candidateList(store.SourceVector, "v1")},
			text:   &fakeSearcher{err: errors.New("fts down")},
			wantID: "v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, partial, err := newTestRetriever(tt.vector, tt.text).Search(context.Background(), store.Query{Raw: "q"}, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !partial {
				t.Error("expected partial=true")
			}
			if len(results) != 1 || results[0].ID != tt.wantID {
				t.Errorf("expected surviving branch result %q, got %v", tt.wantID, results)
			}
		})
	}
}

func TestSearchFailsWhenBothBranchesFail(t *testing.T) {
	vector := &fakeSearcher{err: errors.New("down")}
	text := &fakeSearcher{err: errors.New("also down")}

	_, _, err := newTestRetriever(vector, text).Search(context.Background(), store.Query{Raw: "q"}, 10)
	if !errors.Is(err, store.ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
}

func TestSearchBranchTimeoutDegrades(t *testing.T) {
	vector := &fakeSearcher{hits: candidateList(store.SourceVector, "v1"), delay: time.Second}
	text := &fakeSearcher{hits: candidateList(store.SourceText, "t1")}

	results, partial, err := newTestRetriever(vector, text).Search(context.Background(), store.Query{Raw: "q"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !partial {
		t.Error("expected partial=true after branch timeout")
	}
	if len(results) != 1 || results[0].ID != "t1" {
		t.Errorf("expected text branch result, got %v", results)
	}
}

func TestSearchHonorsCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vector := &fakeSearcher{hits: candidateList(store.SourceVector, "v1")}
	text := &fakeSearcher{hits: candidateList(store.SourceText, "t1")}

	_, _, err := newTestRetriever(vector, text).Search(ctx, store.Query{Raw: "q"}, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSearchTruncatesToTopK(t *testing.T) {
	vector := &fakeSearcher{hits: candidateList(store.SourceVector, "a", "b", "c", "d")}
	text := &fakeSearcher{hits: candidateList(store.SourceText, "e", "f")}

	results, _, err := newTestRetriever(vector, text).Search(context.Background(), store.Query{Raw: "q"}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestSearchEmptyCorpusIsNotAnError(t *testing.T) {
	results, partial, err := newTestRetriever(&fakeSearcher{}, &fakeSearcher{}).Search(context.Background(), store.Query{Raw: "q"}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if partial {
		t.Error("expected partial=false")
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
