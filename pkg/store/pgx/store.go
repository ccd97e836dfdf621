package pgx

import (
	"context"
	"fmt"
	"strings"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/docquery/factgraph/pkg/logger"
	"github.com/docquery/factgraph/pkg/triple"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// TripleStore implements store.TripleStore on PostgreSQL. Fuzzy matching is
// plain substring containment in both directions, computed with position()
// so that LIKE metacharacters in a term carry no pattern meaning; natural
// order is the serial row id, so candidates come back in insertion order.
type TripleStore struct {
	conn pgxIConn
}

// NewTripleStore creates a TripleStore using an existing connection or pool.
func NewTripleStore(conn pgxIConn) *TripleStore {
	return &TripleStore{conn: conn}
}

// SaveTriples persists a batch of triples inside a single transaction, so a
// chunk's triples become visible to queries all at once.
func (s *TripleStore) SaveTriples(ctx context.Context, triples []triple.Triple) error {
	if len(triples) == 0 {
		return nil
	}

	logger.Debug("[Store][SaveTriples] Inserting triples", "count", len(triples))

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgxv5.Batch{}
	for _, t := range triples {
		publicID, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate triple ID: %w", err)
		}
		batch.Queue(
			`INSERT INTO triples (public_id, document_id, chunk_id, subject, predicate, object)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			publicID, t.DocumentID, t.ChunkID, t.Subject, t.Predicate, t.Object,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range triples {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert triple: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// MatchTriples returns triples within scope whose subject or object contains
// the term or is contained by it, case-insensitively, in insertion order.
// Terms pass through as literal strings, never as LIKE patterns; "%", "_"
// and "\" in a term match only themselves, exactly as in triple.FuzzyMatch.
func (s *TripleStore) MatchTriples(
	ctx context.Context,
	scope triple.Scope,
	term string,
	limit int,
) ([]triple.Triple, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = -1 // pgx renders -1 as LIMIT ALL via NULLIF below
	}

	rows, err := s.conn.Query(ctx,
		`SELECT subject, predicate, object, document_id, chunk_id
		 FROM triples
		 WHERE (cardinality($1::text[]) = 0 OR document_id = ANY($1))
		   AND (position(lower($2) in lower(subject)) > 0
		     OR position(lower($2) in lower(object)) > 0
		     OR (subject <> '' AND position(lower(subject) in lower($2)) > 0)
		     OR (object <> '' AND position(lower(object) in lower($2)) > 0))
		 ORDER BY id
		 LIMIT NULLIF($3::int, -1)`,
		scope.DocumentIDs, term, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to match triples: %w", err)
	}
	defer rows.Close()

	return scanTriples(rows)
}

// SampleTriples returns up to limit triples within scope in insertion order.
func (s *TripleStore) SampleTriples(
	ctx context.Context,
	scope triple.Scope,
	limit int,
) ([]triple.Triple, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.conn.Query(ctx,
		`SELECT subject, predicate, object, document_id, chunk_id
		 FROM triples
		 WHERE (cardinality($1::text[]) = 0 OR document_id = ANY($1))
		 ORDER BY id
		 LIMIT $2`,
		scope.DocumentIDs, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sample triples: %w", err)
	}
	defer rows.Close()

	return scanTriples(rows)
}

// CountTriples reports how many triples fall inside the scope.
func (s *TripleStore) CountTriples(ctx context.Context, scope triple.Scope) (int64, error) {
	var count int64
	err := s.conn.QueryRow(ctx,
		`SELECT count(*) FROM triples
		 WHERE (cardinality($1::text[]) = 0 OR document_id = ANY($1))`,
		scope.DocumentIDs,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count triples: %w", err)
	}
	return count, nil
}

// DeleteDocument removes all triples of a document.
func (s *TripleStore) DeleteDocument(ctx context.Context, documentID string) error {
	tag, err := s.conn.Exec(ctx, `DELETE FROM triples WHERE document_id = $1`, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document triples: %w", err)
	}
	logger.Debug("[Store][DeleteDocument] Deleted triples", "document_id", documentID, "count", tag.RowsAffected())
	return nil
}

func scanTriples(rows pgxv5.Rows) ([]triple.Triple, error) {
	var out []triple.Triple
	for rows.Next() {
		var t triple.Triple
		if err := rows.Scan(&t.Subject, &t.Predicate, &t.Object, &t.DocumentID, &t.ChunkID); err != nil {
			return nil, fmt.Errorf("failed to scan triple: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read triples: %w", err)
	}
	return out, nil
}
