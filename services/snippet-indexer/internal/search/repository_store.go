package search

import (
	"context"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/repositories"
)

// RepositoryVectorStore adapts the Chroma-backed embeddings repository to the
// VectorSearcher interface, pinned to one snapshot.
type RepositoryVectorStore struct {
	repo       repositories.EmbeddingsRepository
	snapshotID string
}

func NewRepositoryVectorStore(repo repositories.EmbeddingsRepository, snapshotID string) *RepositoryVectorStore {
	return &RepositoryVectorStore{repo: repo, snapshotID: snapshotID}
}

func (s *RepositoryVectorStore) Query(ctx context.Context, embedding []float32, k int) ([]VectorHit, error) {
	scored, err := s.repo.QueryNearest(ctx, embedding, k, s.snapshotID)
	if err != nil {
		return nil, err
	}
	hits := make([]VectorHit, 0, len(scored))
	for _, sc := range scored {
		hits = append(hits, VectorHit{ID: sc.ID, Score: sc.Score})
	}
	return hits, nil
}
