package testutil

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
)

// MockEmbedder is a deterministic ai.Embedder for tests. The same text
// always produces the same unit vector, so similarity comparisons are
// stable across runs. Explicit vectors can be registered with SetVector.
//
// Safe for concurrent use.
type MockEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dim     int

	// Err, when set, is returned from every Embed call.
	Err error
}

// NewMockEmbedder creates a mock embedder emitting vectors of the given size.
func NewMockEmbedder(dim int) *MockEmbedder {
	return &MockEmbedder{vectors: make(map[string][]float32), dim: dim}
}

// SetVector registers an explicit vector for a content string. Use this to
// control exact cosine similarity between test inputs.
func (e *MockEmbedder) SetVector(content string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[content] = vec
}

// Name implements ai.Embedder.
func (e *MockEmbedder) Name() string { return "mock/test-embedder" }

// Register implements ai.Embedder. It is a no-op; the mock is used
// directly, never looked up through a registry.
func (e *MockEmbedder) Register(api.Registry) {}

// Embed implements ai.Embedder.
func (e *MockEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	embeddings := make([]*ai.Embedding, len(req.Input))
	for i, doc := range req.Input {
		embeddings[i] = &ai.Embedding{Embedding: e.vectorFor(documentText(doc))}
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}

func (e *MockEmbedder) vectorFor(content string) []float32 {
	e.mu.Lock()
	if v, ok := e.vectors[content]; ok {
		e.mu.Unlock()
		return v
	}
	e.mu.Unlock()
	return deterministicVector(content, e.dim)
}

// deterministicVector expands a SHA-256 of the content into a unit vector.
func deterministicVector(content string, dim int) []float32 {
	sum := sha256.Sum256([]byte(content))
	vec := make([]float32, dim)
	var norm float64
	for i := range vec {
		word := binary.BigEndian.Uint32(sum[(i*4)%28 : (i*4)%28+4])
		// Mix the index in so distinct positions differ.
		v := float64(word^uint32(i*2654435761)) / float64(math.MaxUint32)
		vec[i] = float32(v - 0.5)
		norm += float64(vec[i]) * float64(vec[i])
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}

func documentText(doc *ai.Document) string {
	var sb strings.Builder
	for _, p := range doc.Content {
		if p.Kind == ai.PartText {
			sb.WriteString(p.Text)
		}
	}
	return sb.String()
}
