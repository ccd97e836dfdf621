package memory

import (
	"context"
	"sync"

	"github.com/docquery/factgraph/pkg/triple"
)

// TripleStore is an in-memory store.TripleStore. It backs tests and a
// degraded store-less mode; matching semantics mirror the PostgreSQL
// implementation (fuzzy containment both ways, insertion order).
type TripleStore struct {
	mu      sync.RWMutex
	triples []triple.Triple
}

// NewTripleStore creates an empty in-memory triple store.
func NewTripleStore() *TripleStore {
	return &TripleStore{}
}

// SaveTriples appends a batch of triples. The batch becomes visible to
// concurrent readers atomically.
func (s *TripleStore) SaveTriples(ctx context.Context, triples []triple.Triple) error {
	if len(triples) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triples = append(s.triples, triples...)
	return nil
}

// MatchTriples returns scope-bounded triples whose subject or object
// fuzzy-matches term, in insertion order, capped at limit.
func (s *TripleStore) MatchTriples(
	ctx context.Context,
	scope triple.Scope,
	term string,
	limit int,
) ([]triple.Triple, error) {
	if term == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []triple.Triple
	for _, t := range s.triples {
		if !scope.Contains(t.DocumentID) {
			continue
		}
		if !triple.FuzzyMatch(term, t.Subject) && !triple.FuzzyMatch(term, t.Object) {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// SampleTriples returns up to limit triples within scope in insertion order.
func (s *TripleStore) SampleTriples(
	ctx context.Context,
	scope triple.Scope,
	limit int,
) ([]triple.Triple, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []triple.Triple
	for _, t := range s.triples {
		if !scope.Contains(t.DocumentID) {
			continue
		}
		out = append(out, t)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// CountTriples reports how many triples fall inside the scope.
func (s *TripleStore) CountTriples(ctx context.Context, scope triple.Scope) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, t := range s.triples {
		if scope.Contains(t.DocumentID) {
			count++
		}
	}
	return count, nil
}

// DeleteDocument removes all triples of a document.
func (s *TripleStore) DeleteDocument(ctx context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.triples[:0]
	for _, t := range s.triples {
		if t.DocumentID != documentID {
			kept = append(kept, t)
		}
	}
	s.triples = kept
	return nil
}
