package keyword

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

func indexFixture() []*models.Snippet {
	return []*models.Snippet{
		{
			ID:          "id-helper",
			Name:        "pkg.nav.helper.NavHelper",
			Path:        "pkg/nav/helper.py",
			Kind:        models.KindClass,
			Categories:  []string{"class", "navigation"},
			Description: "Helpers for navigation burns.",
			Code:        "class NavHelper:\n    pass\n",
		},
		{
			ID:          "id-circ",
			Name:        "pkg.nav.helper.circ_dv",
			Path:        "pkg/nav/helper.py",
			Kind:        models.KindFunction,
			Categories:  []string{"function"},
			Description: "Computes circular orbit delta-v.",
			Inputs:      []string{"radius"},
			Code:        "def circ_dv(radius):\n    return radius * 2\n",
		},
		{
			ID:          "id-mention",
			Name:        "pkg.misc.notes",
			Path:        "pkg/misc/notes.py",
			Kind:        models.KindFunction,
			Categories:  []string{"function"},
			Description: "Unrelated utility.",
			Code:        "def notes():\n    # NavHelper is used elsewhere\n    return None\n",
		},
		{
			ID:          "id-secret",
			Name:        "pkg.internal.navigation_key",
			Path:        "pkg/internal/keys.py",
			Kind:        models.KindFunction,
			Categories:  []string{"function"},
			Restricted:  true,
			Description: "navigation key material",
			Code:        "def navigation_key():\n    return KEY\n",
		},
	}
}

func TestSearchRanksNameMatchesFirst(t *testing.T) {
	idx := Build(indexFixture(), DefaultConfig())

	hits := idx.Search("nav helper", SearchOptions{K: 10})
	require.NotEmpty(t, hits)
	// the snippet named NavHelper outranks the one merely mentioning it in code
	require.Equal(t, "id-helper", hits[0].ID)

	var mentionRank, nameRank int
	for i, h := range hits {
		switch h.ID {
		case "id-helper":
			nameRank = i
		case "id-mention":
			mentionRank = i
		}
	}
	require.Less(t, nameRank, mentionRank)
}

func TestSearchAndSemantics(t *testing.T) {
	idx := Build(indexFixture(), DefaultConfig())

	orHits := idx.Search("circular navigation", SearchOptions{K: 10})
	andHits := idx.Search("circular orbit", SearchOptions{K: 10, UseAnd: true})

	require.Greater(t, len(orHits), 1)
	require.Len(t, andHits, 1)
	require.Equal(t, "id-circ", andHits[0].ID)

	// AND over tokens that never co-occur yields nothing
	require.Empty(t, idx.Search("circular notes", SearchOptions{K: 10, UseAnd: true}))
}

func TestSearchFilters(t *testing.T) {
	idx := Build(indexFixture(), DefaultConfig())

	hits := idx.Search("navigation", SearchOptions{K: 10, ExcludeRestricted: true})
	for _, h := range hits {
		require.NotEqual(t, "id-secret", h.ID)
	}

	classOnly := idx.Search("navigation", SearchOptions{K: 10, Category: "class"})
	require.Len(t, classOnly, 1)
	require.Equal(t, "id-helper", classOnly[0].ID)
}

func TestSearchDeterministicOrder(t *testing.T) {
	idx := Build(indexFixture(), DefaultConfig())
	first := idx.Search("navigation function", SearchOptions{K: 10})
	for i := 0; i < 5; i++ {
		again := idx.Search("navigation function", SearchOptions{K: 10})
		require.Equal(t, first, again)
	}
}

func TestSearchStopwordsOnlyQuery(t *testing.T) {
	idx := Build(indexFixture(), DefaultConfig())
	require.Empty(t, idx.Search("the and of", SearchOptions{K: 10}))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	idx := Build(indexFixture(), DefaultConfig())
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, idx.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, idx.N, loaded.N)

	want := idx.Search("nav helper", SearchOptions{K: 5})
	got := loaded.Search("nav helper", SearchOptions{K: 5})
	require.Equal(t, want, got)
}
