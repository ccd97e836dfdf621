package retrieval

import (
	"context"
	"fmt"
	"time"

	"github.com/docquery/factgraph/pkg/ai"
	"github.com/docquery/factgraph/pkg/logger"
	"github.com/docquery/factgraph/pkg/store"
	"github.com/docquery/factgraph/pkg/triple"
)

// DefaultStageTimeout bounds each model-backed stage of a single retrieval.
const DefaultStageTimeout = 30 * time.Second

// Options are the tuning knobs of a Retriever.
//
// MaxCandidates caps the fuzzy matcher output per query.
// FallbackTopK is the size of the never-empty fallback result.
// StageTimeout bounds each model-backed stage; zero selects
// DefaultStageTimeout.
type Options struct {
	MaxCandidates int
	FallbackTopK  int
	StageTimeout  time.Duration
}

// DefaultOptions returns the standard retrieval configuration.
func DefaultOptions() Options {
	return Options{
		MaxCandidates: DefaultMaxCandidates,
		FallbackTopK:  DefaultFallbackTopK,
		StageTimeout:  DefaultStageTimeout,
	}
}

// Retriever selects the facts relevant to a query from the document-scoped
// graph. It runs entity extraction, fuzzy matching and relevance
// verification in strict sequence and owns the degrade policy between them.
//
// A Retriever is safe for concurrent use; each Retrieve call is independent.
type Retriever struct {
	extractor    EntityExtractor
	matcher      Matcher
	verifier     *Verifier
	stageTimeout time.Duration
}

// NewRetrieverParams defines the configuration for creating a Retriever.
//
// Client and Store are required. Extractor and Scorer default to the
// model-backed implementations using Client; either can be swapped out.
// ExtractionModel and JudgeModel override the client's default model for
// the respective stage. TranslationLanguage is the target language for
// query-term translations.
type NewRetrieverParams struct {
	Client              ai.Client
	Store               store.TripleStore
	Extractor           EntityExtractor
	Scorer              RelevanceScorer
	ExtractionModel     string
	JudgeModel          string
	TranslationLanguage string
	Options             Options
}

// NewRetriever creates a Retriever from the provided parameters.
func NewRetriever(params NewRetrieverParams) (*Retriever, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("triple store is required")
	}

	extractor := params.Extractor
	if extractor == nil {
		e, err := NewLLMEntityExtractor(NewLLMEntityExtractorParams{
			Client:              params.Client,
			Model:               params.ExtractionModel,
			TranslationLanguage: params.TranslationLanguage,
		})
		if err != nil {
			return nil, err
		}
		extractor = e
	}

	scorer := params.Scorer
	if scorer == nil {
		s, err := NewLLMRelevanceScorer(params.Client, params.JudgeModel)
		if err != nil {
			return nil, err
		}
		scorer = s
	}

	matcher, err := NewStoreMatcher(params.Store, params.Options.MaxCandidates)
	if err != nil {
		return nil, err
	}

	verifier, err := NewVerifier(scorer, params.Options.FallbackTopK)
	if err != nil {
		return nil, err
	}

	stageTimeout := params.Options.StageTimeout
	if stageTimeout <= 0 {
		stageTimeout = DefaultStageTimeout
	}

	return &Retriever{
		extractor:    extractor,
		matcher:      matcher,
		verifier:     verifier,
		stageTimeout: stageTimeout,
	}, nil
}

// Retrieve returns the facts relevant to the query within the document
// scope. The result is empty only when the graph holds no fuzzy match for
// any query entity at all; every other path yields a non-empty best-effort
// set. The only error condition is a failed graph store query, returned as
// a StoreError.
func (r *Retriever) Retrieve(ctx context.Context, query string, scope triple.Scope) ([]triple.Triple, error) {
	extractCtx, cancelExtract := context.WithTimeout(ctx, r.stageTimeout)
	variants, err := r.extractor.Extract(extractCtx, query)
	cancelExtract()
	if err != nil || len(variants) == 0 {
		// Extraction never fails the query; probe the graph with the raw
		// query text instead.
		if err != nil {
			logger.Warn("[Retrieval] Entity extraction errored, using raw query", "error", err)
		}
		variants = []EntityVariant{{Canonical: query}}
	}

	candidates, err := r.matcher.Match(ctx, variants, scope)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		logger.Debug("[Retrieval] No fuzzy matches in scope", "query", query)
		return []triple.Triple{}, nil
	}

	verifyCtx, cancelVerify := context.WithTimeout(ctx, r.stageTimeout)
	defer cancelVerify()
	facts := r.verifier.Verify(verifyCtx, query, candidates)

	logger.Debug("[Retrieval] Retrieval complete", "query", query, "candidates", len(candidates), "facts", len(facts))
	return facts, nil
}
