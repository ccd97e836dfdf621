package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/docquery/factgraph/pkg/ai"
	"github.com/docquery/factgraph/pkg/logger"
)

// EntityVariant is one entity extracted from a query together with its
// lexical variants. All of its terms are tried against the graph.
type EntityVariant struct {
	Canonical    string   `json:"canonical" jsonschema_description:"The entity or concept as it appears in the query"`
	Synonyms     []string `json:"synonyms" jsonschema_description:"Synonyms, root forms and variations of the entity"`
	Translations []string `json:"translations" jsonschema_description:"Translations of the entity into the requested language, empty if the query is not in English"`
}

// Terms returns the canonical form followed by all synonyms and translations,
// trimmed, with empties and duplicates removed. Order is stable, so repeated
// extraction of the same query probes the graph in the same sequence.
func (v EntityVariant) Terms() []string {
	raw := make([]string, 0, 1+len(v.Synonyms)+len(v.Translations))
	raw = append(raw, v.Canonical)
	raw = append(raw, v.Synonyms...)
	raw = append(raw, v.Translations...)

	seen := make(map[string]struct{}, len(raw))
	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		terms = append(terms, t)
	}
	return terms
}

// EntityExtractor turns a raw query into the entity variants to look up in
// the graph.
type EntityExtractor interface {
	Extract(ctx context.Context, query string) ([]EntityVariant, error)
}

// LLMEntityExtractor extracts entities with a language model in deterministic
// generation mode. It never fails closed: if the model errors or finds no
// entities, the raw query itself becomes the single lookup term so the
// matcher still gets a chance.
type LLMEntityExtractor struct {
	client              ai.Client
	model               string
	translationLanguage string
}

// NewLLMEntityExtractorParams defines the configuration for creating an
// LLMEntityExtractor.
//
// Model overrides the client's default model when set.
// TranslationLanguage is the target language for query-term translations;
// it defaults to Tamil.
type NewLLMEntityExtractorParams struct {
	Client              ai.Client
	Model               string
	TranslationLanguage string
}

// NewLLMEntityExtractor creates an LLMEntityExtractor with the provided
// parameters.
func NewLLMEntityExtractor(params NewLLMEntityExtractorParams) (*LLMEntityExtractor, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("ai client is required")
	}
	lang := params.TranslationLanguage
	if lang == "" {
		lang = "Tamil"
	}
	return &LLMEntityExtractor{
		client:              params.Client,
		model:               params.Model,
		translationLanguage: lang,
	}, nil
}

type entitiesResponse struct {
	Entities []EntityVariant `json:"entities" jsonschema_description:"Key entities and concepts identified in the query"`
}

// Extract returns the entity variants for a query. Model errors and empty
// extractions degrade to a single raw-query variant instead of an error.
func (e *LLMEntityExtractor) Extract(ctx context.Context, query string) ([]EntityVariant, error) {
	var res entitiesResponse
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(fmt.Sprintf(ai.ExtractEntitiesPrompt, e.translationLanguage)),
		ai.WithTemperature(ai.Deterministic),
	}
	if e.model != "" {
		opts = append(opts, ai.WithModel(e.model))
	}
	err := e.client.GenerateCompletionWithFormat(
		ctx,
		"extract_query_entities",
		"Extract key entities and concepts from a user query for a knowledge graph lookup.",
		query,
		&res,
		opts...,
	)
	if err != nil {
		logger.Warn("[Retrieval] Entity extraction failed, falling back to raw query", "error", err)
		return []EntityVariant{{Canonical: query}}, nil
	}

	variants := expandStrippedForms(res.Entities)
	if len(variants) == 0 {
		return []EntityVariant{{Canonical: query}}, nil
	}
	return variants, nil
}

// Leading words dropped from noun phrases so that e.g. a query for
// "His First Flight" also probes "First Flight".
var leadingStopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {},
	"his": {}, "her": {}, "their": {}, "its": {},
	"my": {}, "our": {}, "your": {},
}

func stripLeadingStopwords(phrase string) string {
	words := strings.Fields(phrase)
	for len(words) > 1 {
		if _, ok := leadingStopwords[strings.ToLower(words[0])]; !ok {
			break
		}
		words = words[1:]
	}
	return strings.Join(words, " ")
}

// expandStrippedForms adds the article-stripped core phrase of the canonical
// form and every synonym as an extra synonym. The model is prompted to do
// this itself, but the guarantee is enforced here.
func expandStrippedForms(variants []EntityVariant) []EntityVariant {
	out := make([]EntityVariant, 0, len(variants))
	for _, v := range variants {
		phrases := append([]string{v.Canonical}, v.Synonyms...)
		for _, p := range phrases {
			stripped := stripLeadingStopwords(p)
			if stripped != "" && !strings.EqualFold(stripped, p) {
				v.Synonyms = append(v.Synonyms, stripped)
			}
		}
		out = append(out, v)
	}
	return out
}
