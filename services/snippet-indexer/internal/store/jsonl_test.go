package store

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

func TestSnapshotID(t *testing.T) {
	first := SnapshotID("https://example.com/repo.git", "abc123")
	again := SnapshotID("https://example.com/repo.git", "abc123")
	other := SnapshotID("https://example.com/repo.git", "def456")

	require.Equal(t, first, again)
	require.NotEqual(t, first, other)
	require.Len(t, first, 16)
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	s := New(t.TempDir())
	snippets := []*models.Snippet{
		{
			ID:           "id-1",
			Repo:         "https://example.com/repo.git",
			Commit:       "abc123",
			Path:         "pkg/nav.py",
			Lang:         "python",
			Kind:         models.KindFunction,
			Name:         "circ_dv",
			Description:  "Computes circular orbit delta-v.",
			Code:         "def circ_dv(radius):\n    return radius * 2\n",
			Categories:   []string{"function"},
			Dependencies: []string{},
			License:      "UNKNOWN",
			LicenseURL:   "about:blank",
			StartLine:    1,
			EndLine:      3,
		},
		{
			ID:           "id-2",
			Repo:         "https://example.com/repo.git",
			Commit:       "abc123",
			Path:         "pkg/nav.py",
			Lang:         "python",
			Kind:         models.KindClass,
			Name:         "NavHelper",
			Code:         "class NavHelper:\n    pass\n",
			Categories:   []string{"class"},
			Dependencies: []string{"pkg.nav.circ_dv"},
			License:      "UNKNOWN",
			LicenseURL:   "about:blank",
			StartLine:    5,
			EndLine:      7,
		},
	}

	snapshotID := SnapshotID("https://example.com/repo.git", "abc123")
	require.NoError(t, s.SaveSnapshot(snapshotID, snippets))

	loaded, err := s.LoadSnapshot(snapshotID)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.Equal(t, snippets[0].ID, loaded[0].ID)
	require.Equal(t, snippets[0].Code, loaded[0].Code)
	require.Equal(t, snippets[1].Dependencies, loaded[1].Dependencies)

	activeID, active, err := s.LoadActive()
	require.NoError(t, err)
	require.Equal(t, snapshotID, activeID)
	require.Len(t, active, 2)
}

func TestActiveSnapshotRepointsOnNewSave(t *testing.T) {
	s := New(t.TempDir())

	require.NoError(t, s.SaveSnapshot("snap-1", []*models.Snippet{{ID: "a"}}))
	require.NoError(t, s.SaveSnapshot("snap-2", []*models.Snippet{{ID: "b"}, {ID: "c"}}))

	activeID, active, err := s.LoadActive()
	require.NoError(t, err)
	require.Equal(t, "snap-2", activeID)
	require.Len(t, active, 2)

	// the older snapshot stays readable
	old, err := s.LoadSnapshot("snap-1")
	require.NoError(t, err)
	require.Len(t, old, 1)
}

func TestLoadActiveBeforeFirstSave(t *testing.T) {
	s := New(t.TempDir())
	activeID, active, err := s.LoadActive()
	require.NoError(t, err)
	require.Empty(t, activeID)
	require.Nil(t, active)
}

func TestLoadSnapshotMissing(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.LoadSnapshot("nope")
	require.True(t, os.IsNotExist(err))
}
