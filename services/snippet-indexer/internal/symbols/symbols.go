package symbols

import (
	"fmt"
	"sort"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

// Symbol is one fully-qualified name entry within a snapshot.
type Symbol struct {
	ID   string
	Kind models.Kind
	Path string
}

// Table maps qualified name -> snippet, scoped to one (repo, commit)
// snapshot. It is immutable once built.
type Table struct {
	entries map[string]Symbol
}

// ConflictError reports two snippets claiming the same qualified name. The
// snapshot's index build must abort rather than pick one silently.
type ConflictError struct {
	QualifiedName string
	FirstID       string
	SecondID      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("symbol conflict: %q claimed by %s and %s", e.QualifiedName, e.FirstID, e.SecondID)
}

// Build aggregates the fully-qualified symbol table for one snapshot.
// Const-block records are skipped: CONST_BLOCK is not a referenceable symbol.
func Build(snippets []*models.Snippet) (*Table, error) {
	entries := make(map[string]Symbol, len(snippets))
	for _, rec := range snippets {
		if rec.Kind == models.KindConstBlock {
			continue
		}
		fq := rec.QualifiedName()
		if existing, ok := entries[fq]; ok {
			return nil, &ConflictError{QualifiedName: fq, FirstID: existing.ID, SecondID: rec.ID}
		}
		entries[fq] = Symbol{ID: rec.ID, Kind: rec.Kind, Path: rec.Path}
	}
	return &Table{entries: entries}, nil
}

func (t *Table) Lookup(qualifiedName string) (Symbol, bool) {
	s, ok := t.entries[qualifiedName]
	return s, ok
}

func (t *Table) Has(qualifiedName string) bool {
	_, ok := t.entries[qualifiedName]
	return ok
}

func (t *Table) Len() int {
	return len(t.entries)
}

// Names returns all qualified names in sorted order.
func (t *Table) Names() []string {
	out := make([]string, 0, len(t.entries))
	for name := range t.entries {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
