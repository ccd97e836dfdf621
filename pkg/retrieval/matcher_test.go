package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/docquery/factgraph/pkg/store/memory"
	"github.com/docquery/factgraph/pkg/triple"
)

type failingStore struct{}

func (failingStore) SaveTriples(ctx context.Context, triples []triple.Triple) error {
	return nil
}

func (failingStore) MatchTriples(ctx context.Context, scope triple.Scope, term string, limit int) ([]triple.Triple, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) SampleTriples(ctx context.Context, scope triple.Scope, limit int) ([]triple.Triple, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) CountTriples(ctx context.Context, scope triple.Scope) (int64, error) {
	return 0, errors.New("connection refused")
}

func (failingStore) DeleteDocument(ctx context.Context, documentID string) error {
	return nil
}

func seedStoryStore(t *testing.T) *memory.TripleStore {
	t.Helper()
	st := memory.NewTripleStore()
	err := st.SaveTriples(context.Background(), []triple.Triple{
		{Subject: "the young seagull", Predicate: "was afraid of", Object: "Flying", DocumentID: "d1", ChunkID: "c0"},
		{Subject: "Flying", Predicate: "requires", Object: "courage", DocumentID: "d1", ChunkID: "c0"},
		{Subject: "First Flight", Predicate: "is a story about", Object: "a young seagull", DocumentID: "d1", ChunkID: "c1"},
		{Subject: "Paris", Predicate: "is the capital of", Object: "France", DocumentID: "d2", ChunkID: "c9"},
	})
	if err != nil {
		t.Fatalf("SaveTriples failed: %v", err)
	}
	return st
}

func TestMatchUnionsAndDedupes(t *testing.T) {
	st := seedStoryStore(t)
	matcher, err := NewStoreMatcher(st, 0)
	if err != nil {
		t.Fatalf("NewStoreMatcher failed: %v", err)
	}

	// "flight" and "flying" both match the two Flying triples; the union
	// must carry each triple once.
	variants := []EntityVariant{
		{Canonical: "flight", Synonyms: []string{"flying"}},
	}
	got, err := matcher.Match(context.Background(), variants, triple.NewScope("d1"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d candidates, want 3: %v", len(got), got)
	}
	seen := make(map[string]int)
	for _, c := range got {
		seen[c.Key()]++
	}
	for key, n := range seen {
		if n > 1 {
			t.Errorf("candidate %q appears %d times, want 1", key, n)
		}
	}
}

func TestMatchHonorsScope(t *testing.T) {
	st := seedStoryStore(t)
	matcher, err := NewStoreMatcher(st, 0)
	if err != nil {
		t.Fatalf("NewStoreMatcher failed: %v", err)
	}

	variants := []EntityVariant{{Canonical: "France"}, {Canonical: "Flying"}}
	got, err := matcher.Match(context.Background(), variants, triple.NewScope("d1"))
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	for _, c := range got {
		if c.DocumentID != "d1" {
			t.Errorf("candidate %q crosses scope: document %s", c.String(), c.DocumentID)
		}
	}
}

func TestMatchCapsCandidates(t *testing.T) {
	st := memory.NewTripleStore()
	triples := make([]triple.Triple, 0, 20)
	for i := 0; i < 20; i++ {
		triples = append(triples, triple.Triple{
			Subject:    fmt.Sprintf("water source %d", i),
			Predicate:  "is",
			Object:     "wet",
			DocumentID: "d1",
			ChunkID:    fmt.Sprintf("c%d", i),
		})
	}
	if err := st.SaveTriples(context.Background(), triples); err != nil {
		t.Fatalf("SaveTriples failed: %v", err)
	}

	matcher, err := NewStoreMatcher(st, 5)
	if err != nil {
		t.Fatalf("NewStoreMatcher failed: %v", err)
	}

	got, err := matcher.Match(context.Background(), []EntityVariant{{Canonical: "water"}}, triple.Scope{})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d candidates, want cap of 5", len(got))
	}

	// Natural insertion order is preserved under the cap.
	for i, c := range got {
		want := fmt.Sprintf("water source %d", i)
		if c.Subject != want {
			t.Errorf("candidate %d subject = %q, want %q", i, c.Subject, want)
		}
	}
}

func TestMatchWrapsStoreFailure(t *testing.T) {
	matcher, err := NewStoreMatcher(failingStore{}, 0)
	if err != nil {
		t.Fatalf("NewStoreMatcher failed: %v", err)
	}

	_, err = matcher.Match(context.Background(), []EntityVariant{{Canonical: "anything"}}, triple.Scope{})
	if err == nil {
		t.Fatal("Match succeeded, want store error")
	}
	if !IsStoreError(err) {
		t.Fatalf("error %v is not a StoreError", err)
	}
}
