package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docquery/factgraph/internal/db"
	"github.com/docquery/factgraph/internal/storage"
	"github.com/docquery/factgraph/internal/util"
	"github.com/docquery/factgraph/pkg/ai"
	"github.com/docquery/factgraph/pkg/chunker"
	"github.com/docquery/factgraph/pkg/graph"
	"github.com/docquery/factgraph/pkg/logger"
	"github.com/docquery/factgraph/pkg/sampler"
	storepgx "github.com/docquery/factgraph/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IngestDocumentMsg is the ingestion job published to the ingest queue.
type IngestDocumentMsg struct {
	DocumentID string `json:"document_id"`
	FileKey    string `json:"file_key"`
	Name       string `json:"name"`
}

// ProcessIngestMessage downloads a document's text, chunks it, extracts fact
// triples from the sampled chunks and records the document lifecycle. A
// failed run marks the document failed; re-delivery starts from a clean
// slate because prior triples of the document are dropped first.
func ProcessIngestMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.Client,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(IngestDocumentMsg)
	if err = json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	q := db.New(conn)
	defer func() {
		if err == nil {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if updateErr := q.SetDocumentStatus(updateCtx, data.DocumentID, db.DocumentStatusFailed, err.Error()); updateErr != nil {
			logger.Warn("[Queue] Failed to mark document as failed", "document_id", data.DocumentID, "err", updateErr)
		}
	}()

	if err = q.SetDocumentStatus(ctx, data.DocumentID, db.DocumentStatusIndexing, ""); err != nil {
		return err
	}

	text, err := storage.GetFile(ctx, s3Client, data.FileKey)
	if err != nil {
		return fmt.Errorf("failed to fetch document text: %w", err)
	}

	encoder := util.GetEnvString("TOKEN_ENCODER", "cl100k_base")
	maxTokens := util.GetEnvInt("CHUNK_MAX_TOKENS", 400)
	chunks, err := chunker.Split(string(text), data.DocumentID, encoder, maxTokens)
	if err != nil {
		return fmt.Errorf("failed to chunk document: %w", err)
	}

	tripleStore := storepgx.NewTripleStore(conn)
	if err = tripleStore.DeleteDocument(ctx, data.DocumentID); err != nil {
		return err
	}

	builder, err := graph.NewBuilder(graph.NewBuilderParams{
		Client:     aiClient,
		Store:      tripleStore,
		Parallel:   util.GetEnvInt("AI_PARALLEL_REQ", 4),
		MaxRetries: util.GetEnvInt("INGEST_MAX_RETRIES", 3),
	})
	if err != nil {
		return err
	}

	policy := sampler.Policy{
		Stride:   util.GetEnvInt("SAMPLER_STRIDE", 2),
		Offset:   util.GetEnvInt("SAMPLER_OFFSET", 0),
		MinChars: util.GetEnvInt("SAMPLER_MIN_CHARS", 100),
	}

	result, err := builder.BuildDocument(ctx, data.DocumentID, chunks, policy)
	if err != nil {
		return err
	}

	if err = q.SetDocumentCounts(ctx, data.DocumentID, len(chunks), result.TriplesSaved); err != nil {
		return err
	}
	if err = q.SetDocumentStatus(ctx, data.DocumentID, db.DocumentStatusReady, ""); err != nil {
		return err
	}

	logger.Info("[Queue] Document ingested", "document_id", data.DocumentID, "chunks", len(chunks), "sampled", result.ChunksSampled, "triples", result.TriplesSaved, "failed_chunks", result.ChunksFailed)
	return nil
}
