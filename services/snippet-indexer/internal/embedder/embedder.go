package embedder

import (
	"context"
	"time"

	"github.com/G4ertner/kRPC-docs-MCP/pkg/log"
	"github.com/G4ertner/kRPC-docs-MCP/pkg/retry"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/repositories"
)

const embedBatchSize = 64

// SnapshotEmbedder embeds a snapshot's snippets and persists the vectors.
// The records keep their embeddings for the lifetime of the index build.
type SnapshotEmbedder struct {
	embeddingsRepo  repositories.EmbeddingsRepository
	embeddingClient EmbeddingClient
	embeddingModel  string
}

func NewSnapshotEmbedder(embeddingClient EmbeddingClient, embeddingsRepo repositories.EmbeddingsRepository, embeddingModel string) *SnapshotEmbedder {
	return &SnapshotEmbedder{
		embeddingsRepo:  embeddingsRepo,
		embeddingClient: embeddingClient,
		embeddingModel:  embeddingModel,
	}
}

func (p *SnapshotEmbedder) EmbedSnapshot(ctx context.Context, snapshotID string, snippets []*models.Snippet) error {
	logger := log.GetLogger()

	retrier := retry.New[[]Embedding](retry.Options{
		MaxRetries: 3,
		Strategy:   retry.ExponentialJitterBackoff(500*time.Millisecond, 10*time.Second),
	})

	for start := 0; start < len(snippets); start += embedBatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := start + embedBatchSize
		if end > len(snippets) {
			end = len(snippets)
		}
		batch := snippets[start:end]

		texts := make([]string, 0, len(batch))
		for _, snippet := range batch {
			texts = append(texts, embeddingText(snippet))
		}

		vectors, err := retrier.Do(ctx, func() ([]Embedding, error) {
			return p.embeddingClient.CreateEmbeddings(ctx, p.embeddingModel, texts)
		})
		if err != nil {
			logger.WithError(err).Error("failed to create embeddings")
			return err
		}

		for i := range batch {
			batch[i].Embedding = vectors[i].Embedding
		}
	}

	if err := p.embeddingsRepo.Add(ctx, snippets, snapshotID); err != nil {
		logger.WithError(err).Error("failed to persist embeddings")
		return err
	}

	return nil
}

// embeddingText is what the vector actually represents: name and description
// carry the semantics, the code head carries the shape.
func embeddingText(snippet *models.Snippet) string {
	text := snippet.Name + "\n" + snippet.Description
	code := snippet.Code
	if len(code) > 1000 {
		code = code[:1000]
	}
	return text + "\n" + code
}
