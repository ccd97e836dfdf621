package graph

import (
	"context"

	"github.com/docquery/factgraph/pkg/ai"
	"github.com/docquery/factgraph/pkg/chunker"
	"github.com/docquery/factgraph/pkg/triple"
)

type extractTriple struct {
	Subject   string `json:"subject" jsonschema_description:"The entity the fact is about, as a short atomic phrase"`
	Predicate string `json:"predicate" jsonschema_description:"Short verb phrase relating subject and object"`
	Object    string `json:"object" jsonschema_description:"The entity or value the subject relates to, as a short atomic phrase"`
}

type extractResponse struct {
	Triples []extractTriple `json:"triples" jsonschema_description:"All factual subject predicate object triples found in the text"`
}

func extractFromChunk(
	ctx context.Context,
	chunk chunker.Chunk,
	client ai.Client,
) ([]triple.Triple, error) {
	var res extractResponse
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(ai.ExtractTriplesPrompt),
		ai.WithTemperature(ai.Deterministic),
	}
	err := client.GenerateCompletionWithFormat(
		ctx,
		"extract_fact_triples",
		"Extract all factual subject predicate object triples from a text passage.",
		chunk.Text,
		&res,
		opts...,
	)
	if err != nil {
		return nil, err
	}

	triples := make([]triple.Triple, 0, len(res.Triples))
	for _, t := range res.Triples {
		if t.Subject == "" || t.Predicate == "" || t.Object == "" {
			continue
		}
		triples = append(triples, triple.Triple{
			Subject:    t.Subject,
			Predicate:  t.Predicate,
			Object:     t.Object,
			DocumentID: chunk.DocumentID,
			ChunkID:    chunk.ID,
		})
	}
	// Models occasionally repeat a fact within one passage.
	return triple.Dedupe(triples), nil
}
