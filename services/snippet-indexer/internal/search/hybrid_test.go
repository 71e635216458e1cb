package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/embedder"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/keyword"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

type stubEmbedClient struct {
	embedding []float32
	err       error
}

func (s *stubEmbedClient) CreateEmbeddings(_ context.Context, _ string, texts []string) ([]embedder.Embedding, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]embedder.Embedding, len(texts))
	for i := range texts {
		out[i] = embedder.Embedding{Embedding: s.embedding}
	}
	return out, nil
}

type stubReranker struct {
	scores map[string]float64
	err    error
}

func (s *stubReranker) Score(_ context.Context, _ string, _ []RerankCandidate) (map[string]float64, error) {
	return s.scores, s.err
}

func engineFixture() []*models.Snippet {
	return []*models.Snippet{
		{
			ID:          "id-a",
			Name:        "pkg.nav.NavHelper",
			Path:        "pkg/nav.py",
			Categories:  []string{"class"},
			Description: "Helpers for navigation burns.",
			Embedding:   []float32{1, 0, 0},
		},
		{
			ID:          "id-b",
			Name:        "pkg.nav.circ_dv",
			Path:        "pkg/nav.py",
			Categories:  []string{"function"},
			Description: "Computes circular orbit delta-v for navigation.",
			Embedding:   []float32{0, 1, 0},
		},
		{
			ID:          "id-c",
			Name:        "pkg.io.reader",
			Path:        "pkg/io.py",
			Categories:  []string{"function"},
			Description: "Reads telemetry frames.",
			Embedding:   []float32{0, 0, 1},
		},
	}
}

func newTestEngine(vectors VectorSearcher, embedClient embedder.EmbeddingClient, reranker Reranker) *Engine {
	idx := keyword.Build(engineFixture(), keyword.DefaultConfig())
	return NewEngine(DefaultConfig(), idx, vectors, embedClient, reranker)
}

func TestSearchKeywordOnly(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)

	results, err := engine.Search(context.Background(), "navigation", Options{K: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		require.Zero(t, r.VectorScore)
	}
}

func TestSearchFusesVectorSignal(t *testing.T) {
	store := NewMemoryVectorStoreFromSnippets(engineFixture())
	client := &stubEmbedClient{embedding: []float32{0, 0, 1}}
	engine := newTestEngine(store, client, nil)

	results, err := engine.Search(context.Background(), "telemetry reader", Options{K: 3})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "id-c", results[0].ID)
	require.Greater(t, results[0].VectorScore, 0.0)
}

func TestSearchDegradesOnEmbedFailure(t *testing.T) {
	store := NewMemoryVectorStoreFromSnippets(engineFixture())
	client := &stubEmbedClient{err: errors.New("embedding service down")}
	engine := newTestEngine(store, client, nil)

	results, err := engine.Search(context.Background(), "navigation", Options{K: 5})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		require.Zero(t, r.VectorScore)
	}
}

func TestSearchRerank(t *testing.T) {
	reranker := &stubReranker{scores: map[string]float64{"id-b": 1.0, "id-a": 0.0}}
	engine := newTestEngine(nil, nil, reranker)

	results, err := engine.Search(context.Background(), "navigation", Options{K: 5, Rerank: true})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "id-b", results[0].ID)
	require.Equal(t, 1.0, results[0].RerankScore)
}

func TestSearchRerankFailureKeepsFusedOrder(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)
	baseline, err := engine.Search(context.Background(), "navigation", Options{K: 5})
	require.NoError(t, err)

	failing := newTestEngine(nil, nil, &stubReranker{err: errors.New("rerank down")})
	results, err := failing.Search(context.Background(), "navigation", Options{K: 5, Rerank: true})
	require.NoError(t, err)

	require.Len(t, results, len(baseline))
	for i := range results {
		require.Equal(t, baseline[i].ID, results[i].ID)
	}
}

func TestSearchDeterministic(t *testing.T) {
	engine := newTestEngine(nil, nil, nil)
	first, err := engine.Search(context.Background(), "navigation function", Options{K: 5})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := engine.Search(context.Background(), "navigation function", Options{K: 5})
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestMemoryVectorStoreQuery(t *testing.T) {
	store := NewMemoryVectorStoreFromSnippets(engineFixture())
	require.Equal(t, 3, store.Len())

	hits, err := store.Query(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	require.Equal(t, "id-a", hits[0].ID)
	require.InDelta(t, 1.0, hits[0].Score, 1e-6)
}
