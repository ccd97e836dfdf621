package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docquery/factgraph/pkg/ai"
	"github.com/docquery/factgraph/pkg/logger"
	"github.com/docquery/factgraph/pkg/triple"
)

// DefaultFallbackTopK is how many pre-filter candidates are returned when
// relevance verification discards every candidate.
const DefaultFallbackTopK = 10

// RelevanceScorer judges which candidate facts are relevant to a query. It
// returns zero-based indices into candidates. Implementations may be model
// calls, rule engines or learned classifiers.
type RelevanceScorer interface {
	Score(ctx context.Context, query string, candidates []triple.Triple) ([]int, error)
}

// LLMRelevanceScorer scores candidates with a single batched model call in
// deterministic generation mode, using a deliberately generous filter prompt.
type LLMRelevanceScorer struct {
	client ai.Client
	model  string
}

// NewLLMRelevanceScorer creates an LLMRelevanceScorer. Model overrides the
// client's default model when non-empty.
func NewLLMRelevanceScorer(client ai.Client, model string) (*LLMRelevanceScorer, error) {
	if client == nil {
		return nil, fmt.Errorf("ai client is required")
	}
	return &LLMRelevanceScorer{client: client, model: model}, nil
}

type relevanceResponse struct {
	RelevantIndices []int `json:"relevant_indices" jsonschema_description:"Numbers of the facts that are potentially useful for the query, from the numbered list"`
}

// Score returns the indices of candidates judged relevant to the query.
func (s *LLMRelevanceScorer) Score(ctx context.Context, query string, candidates []triple.Triple) ([]int, error) {
	var sb strings.Builder
	sb.WriteString("Query: ")
	sb.WriteString(query)
	sb.WriteString("\n\nFacts:\n")
	for i, c := range candidates {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, c.String()))
	}

	var res relevanceResponse
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(ai.VerifyRelevancePrompt),
		ai.WithTemperature(ai.Deterministic),
	}
	if s.model != "" {
		opts = append(opts, ai.WithModel(s.model))
	}
	err := s.client.GenerateCompletionWithFormat(
		ctx,
		"verify_fact_relevance",
		"Select the facts from a numbered list that are relevant to the user query.",
		sb.String(),
		&res,
		opts...,
	)
	if err != nil {
		return nil, err
	}

	indices := make([]int, 0, len(res.RelevantIndices))
	for _, n := range res.RelevantIndices {
		// The prompt numbers facts from 1.
		i := n - 1
		if i < 0 || i >= len(candidates) {
			continue
		}
		indices = append(indices, i)
	}
	return indices, nil
}

// Verifier filters candidate triples through a RelevanceScorer and owns the
// never-empty fallback: a non-empty candidate set never filters down to
// nothing.
type Verifier struct {
	scorer       RelevanceScorer
	fallbackTopK int
}

// NewVerifier creates a Verifier. A fallbackTopK <= 0 selects
// DefaultFallbackTopK.
func NewVerifier(scorer RelevanceScorer, fallbackTopK int) (*Verifier, error) {
	if scorer == nil {
		return nil, fmt.Errorf("relevance scorer is required")
	}
	if fallbackTopK <= 0 {
		fallbackTopK = DefaultFallbackTopK
	}
	return &Verifier{scorer: scorer, fallbackTopK: fallbackTopK}, nil
}

// Verify returns the candidates judged relevant to the query, in their
// original order. An empty candidate set returns empty, the one genuinely
// empty outcome. When the scorer errors, times out, or rejects every
// candidate, the first fallbackTopK candidates are returned instead so that
// over-filtering degrades into a worst-case answer rather than a false
// "no information found".
func (v *Verifier) Verify(ctx context.Context, query string, candidates []triple.Triple) []triple.Triple {
	if len(candidates) == 0 {
		return []triple.Triple{}
	}

	indices, err := v.scorer.Score(ctx, query, candidates)
	if err != nil {
		logger.Warn("[Retrieval] Relevance scoring failed, applying fallback", "error", err, "candidates", len(candidates))
		return v.fallback(candidates)
	}
	if len(indices) == 0 {
		logger.Debug("[Retrieval] Scorer rejected all candidates, applying fallback", "candidates", len(candidates))
		return v.fallback(candidates)
	}

	sort.Ints(indices)
	filtered := make([]triple.Triple, 0, len(indices))
	last := -1
	for _, i := range indices {
		if i == last {
			continue
		}
		last = i
		filtered = append(filtered, candidates[i])
	}
	return filtered
}

func (v *Verifier) fallback(candidates []triple.Triple) []triple.Triple {
	k := v.fallbackTopK
	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k]
}
