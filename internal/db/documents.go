package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Document lifecycle statuses. A document moves pending -> indexing -> ready,
// or to failed when ingestion gives up.
const (
	DocumentStatusPending  = "pending"
	DocumentStatusIndexing = "indexing"
	DocumentStatusReady    = "ready"
	DocumentStatusFailed   = "failed"
)

// ErrDocumentNotFound is returned when a document public ID does not exist.
var ErrDocumentNotFound = errors.New("document not found")

type Document struct {
	ID           int64     `json:"-"`
	PublicID     string    `json:"id"`
	Name         string    `json:"name"`
	FileKey      string    `json:"-"`
	Status       string    `json:"status"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	ChunkCount   int32     `json:"chunk_count"`
	TripleCount  int32     `json:"triple_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Queries wraps document table access on a pgx pool.
type Queries struct {
	conn *pgxpool.Pool
}

func New(conn *pgxpool.Pool) *Queries {
	return &Queries{conn: conn}
}

const documentColumns = `id, public_id, name, file_key, status, error_message, chunk_count, triple_count, created_at, updated_at`

// CreateDocument inserts a new pending document and returns it.
func (q *Queries) CreateDocument(ctx context.Context, name string, fileKey string) (*Document, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate document ID: %w", err)
	}

	row := q.conn.QueryRow(ctx,
		`INSERT INTO documents (public_id, name, file_key)
		 VALUES ($1, $2, $3)
		 RETURNING `+documentColumns,
		publicID, name, fileKey,
	)
	return scanDocument(row)
}

// GetDocument returns the document with the given public ID.
func (q *Queries) GetDocument(ctx context.Context, publicID string) (*Document, error) {
	row := q.conn.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE public_id = $1`,
		publicID,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	return doc, err
}

// ListDocuments returns all documents, newest first.
func (q *Queries) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := q.conn.Query(ctx,
		`SELECT `+documentColumns+` FROM documents ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	docs := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return docs, nil
}

// SetDocumentStatus updates a document's lifecycle status. The error message
// is recorded for failed and cleared otherwise.
func (q *Queries) SetDocumentStatus(ctx context.Context, publicID string, status string, errorMessage string) error {
	var msg *string
	if status == DocumentStatusFailed && errorMessage != "" {
		msg = &errorMessage
	}
	tag, err := q.conn.Exec(ctx,
		`UPDATE documents SET status = $2, error_message = $3, updated_at = now() WHERE public_id = $1`,
		publicID, status, msg,
	)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

// SetDocumentCounts records the chunk and triple totals after ingestion.
func (q *Queries) SetDocumentCounts(ctx context.Context, publicID string, chunkCount int, tripleCount int) error {
	_, err := q.conn.Exec(ctx,
		`UPDATE documents SET chunk_count = $2, triple_count = $3, updated_at = now() WHERE public_id = $1`,
		publicID, chunkCount, tripleCount,
	)
	if err != nil {
		return fmt.Errorf("failed to update document counts: %w", err)
	}
	return nil
}

// DeleteDocument removes the document row itself. The caller is responsible
// for deleting its triples and parked file.
func (q *Queries) DeleteDocument(ctx context.Context, publicID string) error {
	tag, err := q.conn.Exec(ctx, `DELETE FROM documents WHERE public_id = $1`, publicID)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func scanDocument(row pgxv5.Row) (*Document, error) {
	var doc Document
	err := row.Scan(
		&doc.ID,
		&doc.PublicID,
		&doc.Name,
		&doc.FileKey,
		&doc.Status,
		&doc.ErrorMessage,
		&doc.ChunkCount,
		&doc.TripleCount,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
