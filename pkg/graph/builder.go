package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/docquery/factgraph/internal/util"
	"github.com/docquery/factgraph/pkg/ai"
	"github.com/docquery/factgraph/pkg/chunker"
	"github.com/docquery/factgraph/pkg/logger"
	"github.com/docquery/factgraph/pkg/sampler"
	"github.com/docquery/factgraph/pkg/store"
	"github.com/docquery/factgraph/pkg/triple"

	"golang.org/x/sync/errgroup"
)

// Builder extracts fact triples from document chunks and persists them.
// It manages extraction parallelism and per-chunk retries.
//
// A Builder should be created using NewBuilder.
type Builder struct {
	client     ai.Client
	store      store.TripleStore
	parallel   int
	maxRetries int
}

// NewBuilderParams defines the configuration parameters for creating
// a new Builder.
//
// Parallel controls how many extraction requests run concurrently.
// MaxRetries is the per-chunk retry budget for failed extractions.
type NewBuilderParams struct {
	Client     ai.Client
	Store      store.TripleStore
	Parallel   int
	MaxRetries int
}

// NewBuilder creates and returns a new Builder configured with the
// provided parameters.
func NewBuilder(params NewBuilderParams) (*Builder, error) {
	if params.Client == nil {
		return nil, fmt.Errorf("ai client is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("triple store is required")
	}
	parallel := params.Parallel
	if parallel <= 0 {
		parallel = 4
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	b := &Builder{
		client:     params.Client,
		store:      params.Store,
		parallel:   parallel,
		maxRetries: maxRetries,
	}

	return b, nil
}

// BuildResult summarizes one document build.
type BuildResult struct {
	ChunksSampled int
	ChunksFailed  int
	TriplesSaved  int
}

// BuildDocument extracts triples from the sampled chunks of a document and
// saves them. Chunks are processed in parallel; a chunk whose extraction
// fails after retries is logged and skipped so one bad chunk never aborts
// the document. Each chunk's triples are saved as one unit, so a document
// is only ever missing whole chunks, never partial ones.
func (b *Builder) BuildDocument(
	ctx context.Context,
	documentID string,
	chunks []chunker.Chunk,
	policy sampler.Policy,
) (*BuildResult, error) {
	sampled := policy.Sample(chunks)

	logger.Info("[Graph] Building document", "document_id", documentID, "chunks_total", len(chunks), "chunks_sampled", len(sampled))

	result := &BuildResult{ChunksSampled: len(sampled)}
	mergeMu := sync.Mutex{}

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.parallel)
	for _, chunk := range sampled {
		c := chunk
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				return nil
			default:
				triples, err := util.RetryWithContext(gCtx, b.maxRetries, func(ctx context.Context) ([]triple.Triple, error) {
					return extractFromChunk(ctx, c, b.client)
				})
				if err != nil {
					logger.Warn("[Graph] Chunk extraction failed, skipping", "document_id", documentID, "chunk_id", c.ID, "error", err)
					mergeMu.Lock()
					result.ChunksFailed++
					mergeMu.Unlock()
					return nil
				}

				if err := b.store.SaveTriples(gCtx, triples); err != nil {
					return fmt.Errorf("failed to save triples for chunk %s: %w", c.ID, err)
				}

				mergeMu.Lock()
				result.TriplesSaved += len(triples)
				mergeMu.Unlock()
				return nil
			}
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build document %s:\n%w", documentID, err)
	}

	logger.Info("[Graph] Document built", "document_id", documentID, "triples_saved", result.TriplesSaved, "chunks_failed", result.ChunksFailed)

	return result, nil
}
