package store

import (
	"context"

	"github.com/docquery/factgraph/pkg/triple"
)

// TripleStore defines the interface for persisting and querying the fact
// graph. Implementations must keep SaveTriples atomic per call: a query
// running concurrently with ingestion sees either all triples of a chunk or
// none of them.
type TripleStore interface {
	// SaveTriples persists a batch of triples. Callers save one chunk's
	// triples per call to get chunk-atomic visibility.
	SaveTriples(ctx context.Context, triples []triple.Triple) error

	// MatchTriples returns triples within scope whose subject or object
	// fuzzy-matches the given term (case-insensitive, substring-tolerant in
	// both directions), in the store's natural insertion order, capped at
	// limit. A limit <= 0 means no cap.
	MatchTriples(ctx context.Context, scope triple.Scope, term string, limit int) ([]triple.Triple, error)

	// SampleTriples returns up to limit triples within scope, in natural
	// order, for graph exploration.
	SampleTriples(ctx context.Context, scope triple.Scope, limit int) ([]triple.Triple, error)

	// CountTriples reports how many triples fall inside the scope.
	CountTriples(ctx context.Context, scope triple.Scope) (int64, error)

	// DeleteDocument removes all triples of a document.
	DeleteDocument(ctx context.Context, documentID string) error
}
