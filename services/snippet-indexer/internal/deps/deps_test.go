package deps

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/extractor"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/symbols"
)

const moduleA = `HELPER_SCALE = 2.0

def helper(x):
    return x * HELPER_SCALE

class Calc:
    def double(self, x):
        return helper(x)

    def quad(self, x):
        return self.double(self.double(x))
`

const moduleB = `from module_a import helper, Calc
import module_a as ma

def main():
    c = Calc()
    print(helper(1), ma.helper(2), c.double(3))
`

func buildFixture(t *testing.T) (map[string][]*models.Snippet, *symbols.Table) {
	t.Helper()
	ctx := context.Background()

	files := map[string]string{
		"module_a.py": moduleA,
		"module_b.py": moduleB,
	}
	perFile := map[string][]*models.Snippet{}
	var all []*models.Snippet
	for path, source := range files {
		records, err := extractor.ExtractFile(ctx, []byte(source), extractor.Provenance{
			Repo:   "https://example.com/repo.git",
			Commit: "c0ffee",
			Path:   path,
		})
		require.NoError(t, err)
		perFile[path] = records
		all = append(all, records...)
	}

	table, err := symbols.Build(all)
	require.NoError(t, err)
	return perFile, table
}

func TestAnalyzeAndResolve(t *testing.T) {
	perFile, table := buildFixture(t)
	ctx := context.Background()

	callsA, err := Analyze(ctx, []byte(moduleA), "module_a.py")
	require.NoError(t, err)
	resolvedA := Resolve(callsA, table)

	require.Empty(t, resolvedA["helper"])
	require.Equal(t, []string{"module_a.helper"}, resolvedA["Calc.double"])
	require.Equal(t, []string{"module_a.Calc.double"}, resolvedA["Calc.quad"])
	// class entry aggregates method deps, minus its own members
	require.Equal(t, []string{"module_a.helper"}, resolvedA["Calc"])

	callsB, err := Analyze(ctx, []byte(moduleB), "module_b.py")
	require.NoError(t, err)
	resolvedB := Resolve(callsB, table)

	// unresolvable references (print, c.double on a local variable) are dropped
	require.Equal(t, []string{"module_a.Calc", "module_a.helper"}, resolvedB["main"])

	Attach(perFile["module_b.py"], resolvedB)
	var main *models.Snippet
	for _, rec := range perFile["module_b.py"] {
		if rec.Name == "main" {
			main = rec
		}
	}
	require.NotNil(t, main)
	require.Equal(t, []string{"module_a.Calc", "module_a.helper"}, main.Dependencies)
}

func TestAnalyzeSelfCallOutsideClassMembers(t *testing.T) {
	source := `class Probe:
    def ping(self):
        return self.transmit()
`
	fc, err := Analyze(context.Background(), []byte(source), "probe.py")
	require.NoError(t, err)

	// transmit is not a member of Probe, so the self call stays unresolved
	require.Empty(t, fc.Candidates["Probe.ping"])
}

func TestAnalyzeAliasedImport(t *testing.T) {
	source := `from pkg.orbits import transfer as tx

def go():
    return tx(1)
`
	fc, err := Analyze(context.Background(), []byte(source), "mission.py")
	require.NoError(t, err)

	_, ok := fc.Candidates["go"]["pkg.orbits.transfer"]
	require.True(t, ok)
}

func TestAnalyzeNestedClosureAttribution(t *testing.T) {
	source := `def outer():
    def inner():
        return target()
    return inner

def target():
    return 1
`
	fc, err := Analyze(context.Background(), []byte(source), "closures.py")
	require.NoError(t, err)

	_, ok := fc.Candidates["outer"]["closures.target"]
	require.True(t, ok)
}
