//go:build integration

package knowledge

import (
	"context"
	"testing"

	"github.com/plazadigital/tribubot/internal/testutil"
)

func setupStore(t *testing.T) (*Store, *testutil.MockEmbedder) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	emb := testutil.NewMockEmbedder(int(VectorDimension))
	store, err := New(db.Pool, emb, testutil.SilentLogger())
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	return store, emb
}

// makeVector creates a unit vector with a single non-zero component, making
// cosine similarity between test documents fully controlled.
func makeVector(dim, idx int) []float32 {
	vec := make([]float32, dim)
	vec[idx%dim] = 1.0
	return vec
}

func TestAddAndSearch(t *testing.T) {
	store, emb := setupStore(t)
	ctx := context.Background()

	dim := int(VectorDimension)
	emb.SetVector("cómo funciona el programa de referidos", makeVector(dim, 0))
	emb.SetVector("propuestas de seguridad del candidato", makeVector(dim, 1))
	emb.SetVector("referidos", makeVector(dim, 0))

	docs := []Document{
		{ID: "faq-1", Source: SourceFAQ, Content: "cómo funciona el programa de referidos",
			Metadata: map[string]string{"topic": "referidos"}},
		{ID: "camp-1", Source: SourceCampaign, Content: "propuestas de seguridad del candidato"},
	}
	for _, doc := range docs {
		if err := store.Add(ctx, doc); err != nil {
			t.Fatalf("Add(%q) = %v", doc.ID, err)
		}
	}

	results, err := store.Search(ctx, "referidos", WithTopK(1))
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(results))
	}
	if results[0].Document.ID != "faq-1" {
		t.Errorf("best match = %q, want faq-1", results[0].Document.ID)
	}
	if results[0].Similarity < 0.99 {
		t.Errorf("similarity = %v, want ~1.0", results[0].Similarity)
	}
	if results[0].Document.Metadata["topic"] != "referidos" {
		t.Errorf("metadata = %v, want topic=referidos", results[0].Document.Metadata)
	}
}

func TestSearchSourceFilter(t *testing.T) {
	store, emb := setupStore(t)
	ctx := context.Background()

	dim := int(VectorDimension)
	shared := makeVector(dim, 0)
	emb.SetVector("texto faq", shared)
	emb.SetVector("texto campaña", shared)
	emb.SetVector("consulta", shared)

	if err := store.Add(ctx, Document{ID: "f1", Source: SourceFAQ, Content: "texto faq"}); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	if err := store.Add(ctx, Document{ID: "c1", Source: SourceCampaign, Content: "texto campaña"}); err != nil {
		t.Fatalf("Add() = %v", err)
	}

	results, err := store.Search(ctx, "consulta", WithSource(SourceCampaign))
	if err != nil {
		t.Fatalf("Search() = %v", err)
	}
	if len(results) != 1 || results[0].Document.ID != "c1" {
		t.Fatalf("filtered search = %+v, want only c1", results)
	}
}

func TestAddUpsert(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	doc := Document{ID: "faq-1", Source: SourceFAQ, Content: "versión uno"}
	if err := store.Add(ctx, doc); err != nil {
		t.Fatalf("Add() = %v", err)
	}
	doc.Content = "versión dos"
	if err := store.Add(ctx, doc); err != nil {
		t.Fatalf("re-Add() = %v", err)
	}

	count, err := store.Count(ctx, "")
	if err != nil {
		t.Fatalf("Count() = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d after upsert, want 1", count)
	}
}

func TestDelete(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Add(ctx, Document{ID: id, Source: SourceFAQ, Content: "doc " + id}); err != nil {
			t.Fatalf("Add(%q) = %v", id, err)
		}
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}

	n, err := store.DeleteBySource(ctx, SourceFAQ)
	if err != nil {
		t.Fatalf("DeleteBySource() = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteBySource() removed %d, want 2", n)
	}

	count, err := store.Count(ctx, "")
	if err != nil {
		t.Fatalf("Count() = %v", err)
	}
	if count != 0 {
		t.Errorf("Count() = %d, want 0", count)
	}
}
