package symbols

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

func snippet(id, path, name string, kind models.Kind) *models.Snippet {
	return &models.Snippet{ID: id, Path: path, Name: name, Kind: kind}
}

func TestBuild(t *testing.T) {
	table, err := Build([]*models.Snippet{
		snippet("id-1", "pkg/nav/helper.py", "circ_dv", models.KindFunction),
		snippet("id-2", "pkg/nav/helper.py", "NavHelper", models.KindClass),
		snippet("id-3", "pkg/nav/helper.py", "NavHelper.plan", models.KindMethod),
		snippet("id-4", "pkg/nav/helper.py", "CONST_BLOCK", models.KindConstBlock),
	})
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	sym, ok := table.Lookup("pkg.nav.helper.NavHelper.plan")
	require.True(t, ok)
	require.Equal(t, "id-3", sym.ID)
	require.Equal(t, models.KindMethod, sym.Kind)

	// const blocks are not referenceable symbols
	require.False(t, table.Has("pkg.nav.helper.CONST_BLOCK"))

	require.Equal(t, []string{
		"pkg.nav.helper.NavHelper",
		"pkg.nav.helper.NavHelper.plan",
		"pkg.nav.helper.circ_dv",
	}, table.Names())
}

func TestBuildConflict(t *testing.T) {
	_, err := Build([]*models.Snippet{
		snippet("id-1", "pkg/util.py", "clamp", models.KindFunction),
		snippet("id-2", "pkg/util.py", "clamp", models.KindFunction),
	})
	require.Error(t, err)

	conflict, ok := err.(*ConflictError)
	require.True(t, ok)
	require.Equal(t, "pkg.util.clamp", conflict.QualifiedName)
	require.Equal(t, "id-1", conflict.FirstID)
	require.Equal(t, "id-2", conflict.SecondID)
}
