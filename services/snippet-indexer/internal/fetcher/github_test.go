package fetcher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pinnedSHA = "0123456789abcdef0123456789abcdef01234567"

func TestIsCommitSHA(t *testing.T) {
	assert.True(t, isCommitSHA(pinnedSHA))
	assert.False(t, isCommitSHA("main"))
	assert.False(t, isCommitSHA("v1.2.3"))
	assert.False(t, isCommitSHA(pinnedSHA[:12]))
	assert.False(t, isCommitSHA(strings.ToUpper(pinnedSHA)))
	assert.False(t, isCommitSHA(strings.Replace(pinnedSHA, "0", "g", 1)))
}

func TestCloneCommands_BranchRefUsesShallowClone(t *testing.T) {
	commands := cloneCommands("main", "https://github.com/krpc/snippets.git", "/tmp/work")

	require.Len(t, commands, 1)
	assert.Equal(t, []string{"clone", "--depth=1", "--branch", "main", "https://github.com/krpc/snippets.git", "/tmp/work"}, commands[0])
}

func TestCloneCommands_PinnedCommitFetchesBySHA(t *testing.T) {
	commands := cloneCommands(pinnedSHA, "https://github.com/krpc/snippets.git", "/tmp/work")

	require.Len(t, commands, 3)
	// --branch rejects raw SHAs, so none of the steps may use it
	for _, args := range commands {
		assert.NotContains(t, args, "--branch")
	}
	assert.Equal(t, "clone", commands[0][0])
	assert.Equal(t, []string{"fetch", "--depth=1", "origin", pinnedSHA}, commands[1])
	assert.Equal(t, []string{"checkout", pinnedSHA}, commands[2])
}

func TestSplitRepoURL(t *testing.T) {
	owner, repo, err := splitRepoURL("https://github.com/krpc/snippets.git")
	require.NoError(t, err)
	assert.Equal(t, "krpc", owner)
	assert.Equal(t, "snippets", repo)

	_, _, err = splitRepoURL("https://github.com/just-owner")
	require.Error(t, err)
}
