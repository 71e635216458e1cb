package search

import (
	"context"
	"math"
	"sort"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

type VectorHit struct {
	ID    string
	Score float64
}

// VectorSearcher serves top-k nearest snippets for a query embedding. The
// in-memory store below and the Chroma-backed repository both satisfy it.
type VectorSearcher interface {
	Query(ctx context.Context, embedding []float32, k int) ([]VectorHit, error)
}

// MemoryVectorStore is a brute-force cosine store over the snapshot's
// embeddings. Vectors are normalized on insert so scoring is a dot product.
type MemoryVectorStore struct {
	vectors map[string][]float32
}

func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{vectors: map[string][]float32{}}
}

func NewMemoryVectorStoreFromSnippets(snippets []*models.Snippet) *MemoryVectorStore {
	store := NewMemoryVectorStore()
	for _, rec := range snippets {
		if len(rec.Embedding) > 0 {
			store.Add(rec.ID, rec.Embedding)
		}
	}
	return store
}

func (s *MemoryVectorStore) Add(id string, embedding []float32) {
	s.vectors[id] = normalize(embedding)
}

func (s *MemoryVectorStore) Len() int {
	return len(s.vectors)
}

func (s *MemoryVectorStore) Query(_ context.Context, embedding []float32, k int) ([]VectorHit, error) {
	q := normalize(embedding)
	hits := make([]VectorHit, 0, len(s.vectors))
	for id, vec := range s.vectors {
		hits = append(hits, VectorHit{ID: id, Score: dot(vec, q)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if k > 0 && len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func dot(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return v
	}
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
