package repositories

import (
	"context"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

const snapshotIdKey = "snapshot_id"

type ScoredID struct {
	ID    string
	Score float64
}

// EmbeddingsRepository persists snippet embeddings and serves nearest-
// neighbour lookups, scoped per snapshot so concurrent snapshots don't mix.
type EmbeddingsRepository interface {
	Add(ctx context.Context, snippets []*models.Snippet, snapshotID string) error
	QueryNearest(ctx context.Context, embedding []float32, nResults int, snapshotID string) ([]ScoredID, error)
}

type EmbeddingRepositoryImpl struct {
	chromaCollection chroma.Collection
}

func NewEmbeddingRepository(chromaClient chroma.Client, embeddingFunction embeddings.EmbeddingFunction, collectionName string) (EmbeddingsRepository, error) {
	chromaCollection, err := chromaClient.GetOrCreateCollection(context.Background(), collectionName, chroma.WithEmbeddingFunctionCreate(embeddingFunction))
	if err != nil {
		return nil, err
	}

	return &EmbeddingRepositoryImpl{
		chromaCollection: chromaCollection,
	}, nil
}

func (p *EmbeddingRepositoryImpl) Add(ctx context.Context, snippets []*models.Snippet, snapshotID string) error {
	var ids []chroma.DocumentID
	var documents []string
	var embeddingsList embeddings.Embeddings
	var metadataList []chroma.DocumentMetadata

	for _, snippet := range snippets {
		if len(snippet.Embedding) == 0 {
			continue
		}
		ids = append(ids, chroma.DocumentID(snippet.ID))
		documents = append(documents, snippet.Code)
		embeddingsList = append(embeddingsList, embeddings.NewEmbeddingFromFloat32(snippet.Embedding))
		metadataList = append(metadataList, chroma.NewMetadata(
			chroma.NewStringAttribute("path", snippet.Path),
			chroma.NewStringAttribute("name", snippet.Name),
			chroma.NewStringAttribute("kind", string(snippet.Kind)),
			chroma.NewStringAttribute(snapshotIdKey, snapshotID),
		))
	}

	if len(ids) == 0 {
		return nil
	}

	return p.chromaCollection.Add(
		ctx,
		chroma.WithIDs(ids...),
		chroma.WithEmbeddings(embeddingsList...),
		chroma.WithTexts(documents...),
		chroma.WithMetadatas(metadataList...),
	)
}

func (p *EmbeddingRepositoryImpl) QueryNearest(ctx context.Context, embedding []float32, nResults int, snapshotID string) ([]ScoredID, error) {
	results, err := p.chromaCollection.Query(
		ctx,
		chroma.WithQueryEmbeddings(embeddings.NewEmbeddingFromFloat32(embedding)),
		chroma.WithNResults(nResults),
		chroma.WithWhereQuery(chroma.EqString(snapshotIdKey, snapshotID)),
	)
	if err != nil {
		return nil, err
	}

	idGroups := results.GetIDGroups()
	if len(idGroups) == 0 {
		return []ScoredID{}, nil
	}
	distanceGroups := results.GetDistancesGroups()

	scored := make([]ScoredID, 0, len(idGroups[0]))
	for i, id := range idGroups[0] {
		// chroma returns cosine distance; flip to a similarity score
		score := 0.0
		if len(distanceGroups) > 0 && i < len(distanceGroups[0]) {
			score = 1.0 - float64(distanceGroups[0][i])
		}
		scored = append(scored, ScoredID{ID: string(id), Score: score})
	}

	return scored, nil
}
