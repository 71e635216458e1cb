package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/search"
)

func TestOverlapRerankerScores(t *testing.T) {
	candidates := []search.RerankCandidate{
		{ID: "id-nav", Name: "NavHelper", Description: "Helpers for navigation burns."},
		{ID: "id-io", Name: "reader", Description: "Reads telemetry frames."},
	}

	scores, err := OverlapReranker{}.Score(context.Background(), "navigation helper", candidates)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	require.Greater(t, scores["id-nav"], scores["id-io"])

	for _, score := range scores {
		require.GreaterOrEqual(t, score, 0.0)
		require.LessOrEqual(t, score, 1.0)
	}
}

func TestOverlapRerankerEmptyQuery(t *testing.T) {
	scores, err := OverlapReranker{}.Score(context.Background(), "", []search.RerankCandidate{
		{ID: "id-1", Name: "anything"},
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, scores["id-1"])
}

func TestClampUnit(t *testing.T) {
	require.Equal(t, 0.0, clampUnit(-0.5))
	require.Equal(t, 1.0, clampUnit(1.5))
	require.Equal(t, 0.3, clampUnit(0.3))
}
