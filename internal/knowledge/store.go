// Package knowledge stores campaign documents in PostgreSQL + pgvector and
// serves cosine-similarity search over them. Content is embedded with the
// configured Genkit embedder at write time and at query time.
package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/genai"
)

// VectorDimension matches the vector(768) column in db/migrations.
// gemini-embedding-001 outputs 3072 dimensions by default; we truncate to
// 768 via OutputDimensionality to keep the index small.
const VectorDimension int32 = 768

const (
	// EmbedTimeout bounds each embedding call.
	EmbedTimeout = 15 * time.Second

	// SearchTimeout bounds each vector search query.
	SearchTimeout = 10 * time.Second

	// MaxTopK caps search fan-out regardless of caller input.
	MaxTopK = 20

	// MaxQueryLen truncates oversized search queries before embedding.
	MaxQueryLen = 8192
)

// Querier is the subset of pgx operations the store needs. Satisfied by
// *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const documentCols = `id, source, content, metadata, created_at`

// Store manages the campaign document index.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	db       Querier
	embedder ai.Embedder
	logger   *slog.Logger
}

// New creates a Store over an existing connection pool.
func New(db Querier, embedder ai.Embedder, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("querier is required")
	}
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, embedder: embedder, logger: logger}, nil
}

// embed generates a vector embedding for the given text.
func (s *Store) embed(ctx context.Context, text string) (pgvector.Vector, error) {
	dim := VectorDimension
	resp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{
		Input:   []*ai.Document{ai.DocumentFromText(text, nil)},
		Options: &genai.EmbedContentConfig{OutputDimensionality: &dim},
	})
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("embedding text: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return pgvector.Vector{}, errors.New("empty embedding response")
	}
	return pgvector.NewVector(resp.Embeddings[0].Embedding), nil
}

// Add embeds and upserts a document. Re-adding an existing ID replaces its
// content, embedding, and metadata.
func (s *Store) Add(ctx context.Context, doc Document) error {
	if doc.ID == "" {
		return errors.New("document ID is required")
	}
	if doc.Content == "" {
		return fmt.Errorf("document %q has no content", doc.ID)
	}

	embedCtx, cancel := context.WithTimeout(ctx, EmbedTimeout)
	defer cancel()

	vec, err := s.embed(embedCtx, doc.Content)
	if err != nil {
		return fmt.Errorf("embedding document %q: %w", doc.ID, err)
	}

	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshaling metadata for %q: %w", doc.ID, err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO documents (id, source, content, metadata, embedding)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (id) DO UPDATE
		 SET source = EXCLUDED.source,
		     content = EXCLUDED.content,
		     metadata = EXCLUDED.metadata,
		     embedding = EXCLUDED.embedding`,
		doc.ID, doc.Source, doc.Content, metadataJSON, vec,
	)
	if err != nil {
		return fmt.Errorf("upserting document %q: %w", doc.ID, err)
	}

	s.logger.Debug("added document", "id", doc.ID, "source", doc.Source, "content_length", len(doc.Content))
	return nil
}

// Search returns the documents most similar to query, best first.
// An empty query returns no results without touching the database.
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	if query == "" {
		return []Result{}, nil
	}
	if len(query) > MaxQueryLen {
		query = query[:MaxQueryLen]
	}

	cfg := buildSearchConfig(opts)
	if cfg.topK > MaxTopK {
		cfg.topK = MaxTopK
	}

	embedCtx, cancel := context.WithTimeout(ctx, EmbedTimeout)
	defer cancel()

	vec, err := s.embed(embedCtx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	queryCtx, cancel := context.WithTimeout(ctx, SearchTimeout)
	defer cancel()

	var rows pgx.Rows
	if cfg.source != "" {
		rows, err = s.db.Query(queryCtx,
			`SELECT `+documentCols+`, 1 - (embedding <=> $1) AS similarity
			 FROM documents
			 WHERE source = $2
			 ORDER BY embedding <=> $1
			 LIMIT $3`,
			vec, cfg.source, cfg.topK,
		)
	} else {
		rows, err = s.db.Query(queryCtx,
			`SELECT `+documentCols+`, 1 - (embedding <=> $1) AS similarity
			 FROM documents
			 ORDER BY embedding <=> $1
			 LIMIT $2`,
			vec, cfg.topK,
		)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("search query timeout: %w", err)
		}
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	return s.scanResults(rows)
}

// Count returns the number of indexed documents, optionally for one source.
func (s *Store) Count(ctx context.Context, source string) (int64, error) {
	var count int64
	var err error
	if source != "" {
		err = s.db.QueryRow(ctx, `SELECT count(*) FROM documents WHERE source = $1`, source).Scan(&count)
	} else {
		err = s.db.QueryRow(ctx, `SELECT count(*) FROM documents`).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return count, nil
}

// Delete removes a document by ID. Deleting a missing ID is not an error.
func (s *Store) Delete(ctx context.Context, docID string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, docID); err != nil {
		return fmt.Errorf("deleting document %q: %w", docID, err)
	}
	s.logger.Debug("deleted document", "id", docID)
	return nil
}

// DeleteBySource removes all documents for a source and reports how many.
func (s *Store) DeleteBySource(ctx context.Context, source string) (int64, error) {
	if source == "" {
		return 0, errors.New("source is required")
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM documents WHERE source = $1`, source)
	if err != nil {
		return 0, fmt.Errorf("deleting documents for source %q: %w", source, err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) scanResults(rows pgx.Rows) ([]Result, error) {
	results := make([]Result, 0, 8)
	for rows.Next() {
		var (
			doc          Document
			metadataJSON []byte
			similarity   float32
		)
		if err := rows.Scan(&doc.ID, &doc.Source, &doc.Content, &metadataJSON, &doc.CreatedAt, &similarity); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
				s.logger.Warn("unparseable document metadata", "document_id", doc.ID, "error", err)
				doc.Metadata = map[string]string{}
			}
		}
		results = append(results, Result{Document: doc, Similarity: similarity})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search rows: %w", err)
	}
	return results, nil
}
