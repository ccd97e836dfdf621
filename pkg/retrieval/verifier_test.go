package retrieval

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/docquery/factgraph/pkg/triple"
)

type stubScorer struct {
	indices []int
	err     error
	calls   int
}

func (s *stubScorer) Score(ctx context.Context, query string, candidates []triple.Triple) ([]int, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.indices, nil
}

func makeCandidates(n int) []triple.Triple {
	out := make([]triple.Triple, n)
	for i := range out {
		out[i] = triple.Triple{
			Subject:    fmt.Sprintf("subject %d", i),
			Predicate:  "is",
			Object:     fmt.Sprintf("object %d", i),
			DocumentID: "d1",
			ChunkID:    fmt.Sprintf("c%d", i),
		}
	}
	return out
}

func TestVerifyKeepsScoredCandidatesInOrder(t *testing.T) {
	scorer := &stubScorer{indices: []int{3, 0, 3}}
	verifier, err := NewVerifier(scorer, 0)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	candidates := makeCandidates(5)
	got := verifier.Verify(context.Background(), "q", candidates)

	want := []triple.Triple{candidates[0], candidates[3]}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Verify = %v, want %v", got, want)
	}
}

func TestVerifyEmptyCandidatesStaysEmpty(t *testing.T) {
	scorer := &stubScorer{indices: []int{0, 1}}
	verifier, err := NewVerifier(scorer, 0)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	got := verifier.Verify(context.Background(), "q", nil)
	if len(got) != 0 {
		t.Fatalf("Verify fabricated %d facts from empty candidates", len(got))
	}
	if scorer.calls != 0 {
		t.Errorf("scorer called %d times for empty candidates, want 0", scorer.calls)
	}
}

func TestVerifyFallbackWhenAllRejected(t *testing.T) {
	scorer := &stubScorer{indices: nil}
	verifier, err := NewVerifier(scorer, 0)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	// Twelve candidates, all rejected: the first ten come back anyway.
	candidates := makeCandidates(12)
	got := verifier.Verify(context.Background(), "q", candidates)

	if !reflect.DeepEqual(got, candidates[:10]) {
		t.Fatalf("Verify = %v, want first 10 candidates", got)
	}
}

func TestVerifyFallbackOnScorerError(t *testing.T) {
	scorer := &stubScorer{err: errors.New("judge timed out")}
	verifier, err := NewVerifier(scorer, 3)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	candidates := makeCandidates(5)
	got := verifier.Verify(context.Background(), "q", candidates)

	if !reflect.DeepEqual(got, candidates[:3]) {
		t.Fatalf("Verify = %v, want first 3 candidates", got)
	}
}

func TestVerifyFallbackSmallerThanTopK(t *testing.T) {
	scorer := &stubScorer{indices: nil}
	verifier, err := NewVerifier(scorer, 10)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	candidates := makeCandidates(4)
	got := verifier.Verify(context.Background(), "q", candidates)

	if !reflect.DeepEqual(got, candidates) {
		t.Fatalf("Verify = %v, want all 4 candidates", got)
	}
}

func TestLLMScorerConvertsNumbering(t *testing.T) {
	client := &stubClient{indices: []int{1, 3, 99, 0}}
	scorer, err := NewLLMRelevanceScorer(client, "")
	if err != nil {
		t.Fatalf("NewLLMRelevanceScorer failed: %v", err)
	}

	candidates := makeCandidates(4)
	got, err := scorer.Score(context.Background(), "q", candidates)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}

	// Prompt numbering starts at 1; out-of-range entries are dropped.
	want := []int{0, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Score = %v, want %v", got, want)
	}
}
