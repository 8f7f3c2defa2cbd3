// Package rag bridges the knowledge store to retrieval for the chat engine,
// and exposes it as a Genkit ai.Retriever for flow tooling.
package rag

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/plazadigital/tribubot/internal/knowledge"
)

// Searcher is the slice of knowledge.Store the retriever needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts ...knowledge.SearchOption) ([]knowledge.Result, error)
}

// Retriever retrieves campaign documents relevant to a query.
type Retriever struct {
	store Searcher
}

// New creates a Retriever over a knowledge searcher.
func New(store Searcher) (*Retriever, error) {
	if store == nil {
		return nil, fmt.Errorf("searcher is required")
	}
	return &Retriever{store: store}, nil
}

// Retrieve returns up to topK documents relevant to query, best first.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]*ai.Document, error) {
	results, err := r.store.Search(ctx, query, knowledge.WithTopK(topK))
	if err != nil {
		return nil, fmt.Errorf("retrieving documents: %w", err)
	}
	return toGenkitDocuments(results), nil
}

// Define registers the retriever with Genkit under the given name so flows
// and the developer UI can exercise it directly.
func (r *Retriever) Define(g *genkit.Genkit, name string) ai.Retriever {
	return genkit.DefineRetriever(
		g, name, nil,
		func(ctx context.Context, req *ai.RetrieverRequest) (*ai.RetrieverResponse, error) {
			query := queryText(req)
			topK := requestTopK(req, 3)

			results, err := r.store.Search(ctx, query, knowledge.WithTopK(topK))
			if err != nil {
				return nil, err
			}
			return &ai.RetrieverResponse{Documents: toGenkitDocuments(results)}, nil
		},
	)
}

func queryText(req *ai.RetrieverRequest) string {
	if req.Query != nil && len(req.Query.Content) > 0 {
		return req.Query.Content[0].Text
	}
	return ""
}

// requestTopK reads the "k" option if present and sane, else defaultK.
func requestTopK(req *ai.RetrieverRequest, defaultK int) int {
	opts, ok := req.Options.(map[string]any)
	if !ok {
		return defaultK
	}
	raw, ok := opts["k"]
	if !ok {
		return defaultK
	}

	var k int
	switch v := raw.(type) {
	case int:
		k = v
	case int64:
		k = int(v)
	case float64:
		k = int(v)
	default:
		return defaultK
	}
	if k < 1 || k > knowledge.MaxTopK {
		return defaultK
	}
	return k
}

func toGenkitDocuments(results []knowledge.Result) []*ai.Document {
	docs := make([]*ai.Document, len(results))
	for i, result := range results {
		metadata := make(map[string]any, len(result.Document.Metadata)+2)
		for k, v := range result.Document.Metadata {
			metadata[k] = v
		}
		metadata["source"] = result.Document.Source
		metadata["similarity"] = result.Similarity

		docs[i] = ai.DocumentFromText(result.Document.Content, metadata)
	}
	return docs
}
