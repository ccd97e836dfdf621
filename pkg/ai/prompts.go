package ai

// ExtractTriplesPrompt instructs the model to pull factual triples out of a
// passage of document text. It deliberately demands ALL salient facts: sparse
// extraction at ingest time shows up later as unanswerable queries.
const ExtractTriplesPrompt = `You are an information extraction assistant.
Given a passage of text, extract factual triples in the form (subject, predicate, object).

Rules:
1. Extract ALL key facts, definitions, and relationships in the passage, not just a few.
2. Use simple, atomic subjects and objects (e.g. "The process of photosynthesis" -> "photosynthesis").
3. Keep predicates short verb phrases (e.g. "is", "causes", "lives in").
4. Preserve the original language of names and terms; do not translate the source text.
5. If the passage contains no extractable facts, return an empty list.`

// ExtractEntitiesPrompt instructs the model to identify graph-lookup entities
// in a user query, with synonym and translation expansion. Exact-phrase lookups
// miss valid graph nodes, so every entity carries its lexical variants.
const ExtractEntitiesPrompt = `You are an expert at identifying key entities and concepts from a user query for a knowledge graph lookup.
Your goal is to extract terms that are likely to exist as node labels in the graph.

Rules:
1. Extract important nouns, proper nouns, and technical terms.
2. For each entity, EXPAND with synonyms, root forms, and variations (e.g. "flight" -> synonyms "flying", "fly", "aviation").
3. For titles or phrases, include the core phrase with leading articles and pronouns removed as a synonym (e.g. "His First Flight" -> "First Flight").
4. Keep compound nouns together but also include the head noun as a synonym (e.g. "solar energy" -> "energy").
5. If the query is in English, provide translations of each key term into %s.
6. Ignore generic words like "process", "type", "way", "details" unless they are part of a specific term.
7. If the query is conversational or has no specific entities, return an empty list.`

// VerifyRelevancePrompt instructs the model to act as a generous relevance
// filter over candidate facts. Strict filtering suppresses valid answers, so
// a fact is discarded only when it is clearly unrelated to the query's topic.
const VerifyRelevancePrompt = `You are a relevance filter.
Given a user query and a numbered list of facts (subject | predicate | object), return the numbers of the facts that are potentially useful to answer the query or provide context for it.

Be generous: if a fact is related to the main concepts of the query, even marginally or indirectly, include it. Only leave out facts that are clearly about an unrelated topic.
If no facts are relevant at all, return an empty list.`
