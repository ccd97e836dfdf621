package retrieval

import (
	"context"
	"fmt"

	"github.com/docquery/factgraph/pkg/store"
	"github.com/docquery/factgraph/pkg/triple"
)

// DefaultMaxCandidates bounds the candidate set handed to the verifier.
// High-fan-out terms ("water", "is") can otherwise match most of the graph.
const DefaultMaxCandidates = 50

// Matcher finds candidate triples for a set of entity variants.
type Matcher interface {
	Match(ctx context.Context, variants []EntityVariant, scope triple.Scope) ([]triple.Triple, error)
}

// StoreMatcher matches entity terms against a TripleStore with the store's
// fuzzy substring semantics. Matches are unioned across terms, deduplicated
// by identity and capped at maxCandidates, preserving the store's natural
// order within each term.
type StoreMatcher struct {
	store         store.TripleStore
	maxCandidates int
}

// NewStoreMatcher creates a StoreMatcher. A maxCandidates <= 0 selects
// DefaultMaxCandidates.
func NewStoreMatcher(st store.TripleStore, maxCandidates int) (*StoreMatcher, error) {
	if st == nil {
		return nil, fmt.Errorf("triple store is required")
	}
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &StoreMatcher{store: st, maxCandidates: maxCandidates}, nil
}

// Match probes the store once per entity term and unions the results. Store
// failures are returned as a StoreError; there is no degraded mode without
// the store.
func (m *StoreMatcher) Match(ctx context.Context, variants []EntityVariant, scope triple.Scope) ([]triple.Triple, error) {
	seen := make(map[string]struct{})
	candidates := make([]triple.Triple, 0)

	for _, variant := range variants {
		for _, term := range variant.Terms() {
			if len(candidates) >= m.maxCandidates {
				return candidates, nil
			}
			matches, err := m.store.MatchTriples(ctx, scope, term, m.maxCandidates)
			if err != nil {
				return nil, &StoreError{Err: err}
			}
			for _, t := range matches {
				if len(candidates) >= m.maxCandidates {
					break
				}
				if _, ok := seen[t.Key()]; ok {
					continue
				}
				seen[t.Key()] = struct{}{}
				candidates = append(candidates, t)
			}
		}
	}
	return candidates, nil
}
