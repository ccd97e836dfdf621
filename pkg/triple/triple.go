package triple

import "strings"

// Triple is a subject-predicate-object fact extracted from a document chunk.
// Triples are immutable once extracted. The store does not guarantee
// uniqueness; the same fact may appear under several chunks and downstream
// consumers tolerate that.
type Triple struct {
	Subject    string `json:"subject"`
	Predicate  string `json:"predicate"`
	Object     string `json:"object"`
	DocumentID string `json:"document_id"`
	ChunkID    string `json:"chunk_id"`
}

// Key returns the identity of a triple for deduplication. Two triples with
// the same subject, predicate, object, and chunk are the same fact.
func (t Triple) Key() string {
	return t.Subject + "\x1f" + t.Predicate + "\x1f" + t.Object + "\x1f" + t.ChunkID
}

// String renders the triple in "subject | predicate | object" form, the shape
// the relevance judge and downstream consumers read.
func (t Triple) String() string {
	return t.Subject + " | " + t.Predicate + " | " + t.Object
}

// Scope bounds retrieval to the triples of the given documents. A scope with
// no document IDs matches the whole store.
type Scope struct {
	DocumentIDs []string
}

// NewScope creates a scope over the given document IDs.
func NewScope(documentIDs ...string) Scope {
	return Scope{DocumentIDs: documentIDs}
}

// Contains reports whether a document falls inside the scope.
func (s Scope) Contains(documentID string) bool {
	if len(s.DocumentIDs) == 0 {
		return true
	}
	for _, id := range s.DocumentIDs {
		if id == documentID {
			return true
		}
	}
	return false
}

// FuzzyMatch reports whether an entity term matches a graph node label.
// The comparison is case-insensitive and substring-tolerant in both
// directions: "First Flight" matches the label "His First Flight" and the
// query phrase "His First Flight" matches the label "First Flight". Exact
// containment in a single direction was shown to miss valid matches.
func FuzzyMatch(term, label string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	label = strings.ToLower(strings.TrimSpace(label))
	if term == "" || label == "" {
		return false
	}
	return strings.Contains(label, term) || strings.Contains(term, label)
}

// Dedupe removes duplicate triples by identity, preserving first-seen order.
func Dedupe(in []Triple) []Triple {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]Triple, 0, len(in))
	for _, t := range in {
		key := t.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
