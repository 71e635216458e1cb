package test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/embedder"
	mockembedder "github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/embedder/mocks"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
	mockrepositories "github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/repositories/mocks"
)

func TestSnapshotEmbedder_EmbedSnapshot_Success(t *testing.T) {
	controller := gomock.NewController(t)
	defer controller.Finish()

	mockEmbeddingClient := mockembedder.NewMockEmbeddingClient(controller)
	mockEmbeddingsRepo := mockrepositories.NewMockEmbeddingsRepository(controller)

	snapshotEmbedder := embedder.NewSnapshotEmbedder(mockEmbeddingClient, mockEmbeddingsRepo, "text-embedding-3-small")

	ctx := context.Background()
	snapshotID := "snapshot-123"
	snippets := []*models.Snippet{
		{ID: "snippet-1", Name: "circ_dv", Description: "delta-v", Code: "def circ_dv(r):\n    return r * 2\n"},
		{ID: "snippet-2", Name: "NavHelper", Description: "nav helpers", Code: "class NavHelper:\n    pass\n"},
	}

	expectedEmbeddings := []embedder.Embedding{
		{Embedding: []float32{0.1, 0.2, 0.3}},
		{Embedding: []float32{0.4, 0.5, 0.6}},
	}

	mockEmbeddingClient.EXPECT().
		CreateEmbeddings(gomock.Any(), "text-embedding-3-small", gomock.Len(2)).
		Return(expectedEmbeddings, nil).
		Times(1)

	mockEmbeddingsRepo.EXPECT().
		Add(gomock.Any(), snippets, snapshotID).
		Return(nil).
		Times(1)

	err := snapshotEmbedder.EmbedSnapshot(ctx, snapshotID, snippets)
	require.NoError(t, err)
	require.Equal(t, expectedEmbeddings[0].Embedding, snippets[0].Embedding)
	require.Equal(t, expectedEmbeddings[1].Embedding, snippets[1].Embedding)
}

func TestSnapshotEmbedder_EmbedSnapshot_ClientError(t *testing.T) {
	controller := gomock.NewController(t)
	defer controller.Finish()

	mockEmbeddingClient := mockembedder.NewMockEmbeddingClient(controller)
	mockEmbeddingsRepo := mockrepositories.NewMockEmbeddingsRepository(controller)

	snapshotEmbedder := embedder.NewSnapshotEmbedder(mockEmbeddingClient, mockEmbeddingsRepo, "text-embedding-3-small")

	ctx := context.Background()
	snippets := []*models.Snippet{
		{ID: "snippet-1", Name: "circ_dv", Code: "def circ_dv(r):\n    return r\n"},
	}
	expectedError := errors.New("embedding error")

	mockEmbeddingClient.EXPECT().
		CreateEmbeddings(gomock.Any(), "text-embedding-3-small", gomock.Any()).
		Return(nil, expectedError).
		Times(3) // MaxRetries bounds total attempts

	mockEmbeddingsRepo.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	err := snapshotEmbedder.EmbedSnapshot(ctx, "snapshot-123", snippets)
	require.Error(t, err)
}

func TestSnapshotEmbedder_EmbedSnapshot_RepositoryError(t *testing.T) {
	controller := gomock.NewController(t)
	defer controller.Finish()

	mockEmbeddingClient := mockembedder.NewMockEmbeddingClient(controller)
	mockEmbeddingsRepo := mockrepositories.NewMockEmbeddingsRepository(controller)

	snapshotEmbedder := embedder.NewSnapshotEmbedder(mockEmbeddingClient, mockEmbeddingsRepo, "text-embedding-3-small")

	ctx := context.Background()
	snippets := []*models.Snippet{
		{ID: "snippet-1", Name: "circ_dv", Code: "def circ_dv(r):\n    return r\n"},
	}
	expectedError := errors.New("database connection failed")

	mockEmbeddingClient.EXPECT().
		CreateEmbeddings(gomock.Any(), "text-embedding-3-small", gomock.Any()).
		Return([]embedder.Embedding{{Embedding: []float32{0.1, 0.2, 0.3}}}, nil).
		Times(1)

	mockEmbeddingsRepo.EXPECT().
		Add(gomock.Any(), snippets, "snapshot-123").
		Return(expectedError).
		Times(1)

	err := snapshotEmbedder.EmbedSnapshot(ctx, "snapshot-123", snippets)
	require.Error(t, err)
	require.Equal(t, expectedError, err)
}
