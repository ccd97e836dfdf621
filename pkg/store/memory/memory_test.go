package memory

import (
	"context"
	"testing"

	"github.com/docquery/factgraph/pkg/triple"
)

func seedStore(t *testing.T) *TripleStore {
	t.Helper()
	s := NewTripleStore()
	err := s.SaveTriples(context.Background(), []triple.Triple{
		{Subject: "Flying", Predicate: "frightens", Object: "the young seagull", DocumentID: "d1", ChunkID: "c1"},
		{Subject: "the young seagull", Predicate: "stands on", Object: "the ledge", DocumentID: "d1", ChunkID: "c1"},
		{Subject: "Paris", Predicate: "is capital of", Object: "France", DocumentID: "d2", ChunkID: "c9"},
	})
	if err != nil {
		t.Fatalf("SaveTriples() error = %v", err)
	}
	return s
}

func TestMatchTriples_FuzzyBothDirections(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	// term contained in subject label
	got, err := s.MatchTriples(ctx, triple.Scope{}, "flying", 0)
	if err != nil {
		t.Fatalf("MatchTriples() error = %v", err)
	}
	if len(got) != 1 || got[0].Subject != "Flying" {
		t.Fatalf("MatchTriples(flying) = %v, want the Flying triple", got)
	}

	// label contained in term
	got, err = s.MatchTriples(ctx, triple.Scope{}, "the famous city of Paris", 0)
	if err != nil {
		t.Fatalf("MatchTriples() error = %v", err)
	}
	if len(got) != 1 || got[0].Subject != "Paris" {
		t.Fatalf("MatchTriples(paris phrase) = %v, want the Paris triple", got)
	}
}

func TestMatchTriples_LiteralWildcardCharacters(t *testing.T) {
	s := NewTripleStore()
	ctx := context.Background()
	err := s.SaveTriples(ctx, []triple.Triple{
		{Subject: "water 1000 liters", Predicate: "fills", Object: "the tank", DocumentID: "d1", ChunkID: "c1"},
		{Subject: "water 100% pure", Predicate: "comes from", Object: "the spring", DocumentID: "d1", ChunkID: "c1"},
		{Subject: `C:\docs\report`, Predicate: "mentions", Object: "the spring", DocumentID: "d1", ChunkID: "c2"},
		{Subject: "chunk_identifier", Predicate: "labels", Object: "a passage", DocumentID: "d1", ChunkID: "c2"},
	})
	if err != nil {
		t.Fatalf("SaveTriples() error = %v", err)
	}

	// "%" and "_" carry no wildcard meaning, they only match themselves.
	got, err := s.MatchTriples(ctx, triple.Scope{}, "water 100%", 0)
	if err != nil {
		t.Fatalf("MatchTriples() error = %v", err)
	}
	if len(got) != 1 || got[0].Subject != "water 100% pure" {
		t.Fatalf("MatchTriples(water 100%%) = %v, want only the literal match", got)
	}

	got, err = s.MatchTriples(ctx, triple.Scope{}, `c:\docs`, 0)
	if err != nil {
		t.Fatalf("MatchTriples() error = %v", err)
	}
	if len(got) != 1 || got[0].Subject != `C:\docs\report` {
		t.Fatalf("MatchTriples(c:\\docs) = %v, want the backslash triple", got)
	}

	got, err = s.MatchTriples(ctx, triple.Scope{}, "chunk_id", 0)
	if err != nil {
		t.Fatalf("MatchTriples() error = %v", err)
	}
	if len(got) != 1 || got[0].Subject != "chunk_identifier" {
		t.Fatalf("MatchTriples(chunk_id) = %v, want the underscore triple", got)
	}
}

func TestMatchTriples_ScopeBound(t *testing.T) {
	s := seedStore(t)

	got, err := s.MatchTriples(context.Background(), triple.NewScope("d1"), "paris", 0)
	if err != nil {
		t.Fatalf("MatchTriples() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("MatchTriples() = %v, want no triples outside scope d1", got)
	}
}

func TestMatchTriples_Limit(t *testing.T) {
	s := seedStore(t)

	got, err := s.MatchTriples(context.Background(), triple.NewScope("d1"), "seagull", 1)
	if err != nil {
		t.Fatalf("MatchTriples() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("MatchTriples() returned %d triples, want 1 (capped)", len(got))
	}
	if got[0].Subject != "Flying" {
		t.Errorf("cap should keep insertion order, got %v", got[0])
	}
}

func TestDeleteDocument(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	if err := s.DeleteDocument(ctx, "d1"); err != nil {
		t.Fatalf("DeleteDocument() error = %v", err)
	}

	count, err := s.CountTriples(ctx, triple.Scope{})
	if err != nil {
		t.Fatalf("CountTriples() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountTriples() = %d after delete, want 1", count)
	}

	count, err = s.CountTriples(ctx, triple.NewScope("d1"))
	if err != nil {
		t.Fatalf("CountTriples() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountTriples(d1) = %d after delete, want 0", count)
	}
}

func TestSampleTriples(t *testing.T) {
	s := seedStore(t)

	got, err := s.SampleTriples(context.Background(), triple.NewScope("d1"), 10)
	if err != nil {
		t.Fatalf("SampleTriples() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("SampleTriples() returned %d triples, want 2", len(got))
	}
}
