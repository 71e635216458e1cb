// Package resolver assembles a target snippet and its transitive local
// dependencies into one deterministic, size-bounded, paste-ready bundle.
package resolver

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

var ErrTargetNotFound = errors.New("target snippet not found by id or name")

const (
	DefaultMaxBytes = 25000
	DefaultMaxNodes = 25
)

type ManifestEntry struct {
	ID            string      `json:"id"`
	QualifiedName string      `json:"qualified_name"`
	Kind          models.Kind `json:"kind"`
}

type Result struct {
	Code       string          `json:"code"`
	Manifest   []ManifestEntry `json:"order"`
	Unresolved []string        `json:"unresolved"`
	Truncated  bool            `json:"truncated"`
	Nodes      int             `json:"nodes"`
	Bytes      int             `json:"bytes"`
}

// Resolver walks one immutable snapshot. Dependency edges are symbolic
// qualified names, bound to snippet ids here at resolution time.
type Resolver struct {
	byID          map[string]*models.Snippet
	bySymbol      map[string]*models.Snippet
	constByModule map[string]*models.Snippet
}

func New(snippets []*models.Snippet) *Resolver {
	r := &Resolver{
		byID:          make(map[string]*models.Snippet, len(snippets)),
		bySymbol:      make(map[string]*models.Snippet, len(snippets)),
		constByModule: map[string]*models.Snippet{},
	}
	for _, rec := range snippets {
		r.byID[rec.ID] = rec
		r.bySymbol[rec.QualifiedName()] = rec
		if rec.Kind == models.KindConstBlock {
			r.constByModule[rec.Module()] = rec
		}
	}
	return r
}

// Resolve builds the bundle for a target given by snippet id or qualified
// name. It never recurses into a node already on the visiting path, so
// mutual dependencies terminate with each snippet emitted once.
func (r *Resolver) Resolve(target string, maxBytes, maxNodes int) (*Result, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}

	rec, ok := r.byID[target]
	if !ok {
		rec, ok = r.bySymbol[target]
	}
	if !ok {
		return nil, ErrTargetNotFound
	}

	// a bare method is never emitted without its class context
	targetSym := rec.QualifiedName()
	if cls := r.classSymbolFor(rec); cls != "" {
		if _, ok := r.bySymbol[cls]; ok {
			targetSym = cls
		}
	}

	walk := &walkState{
		resolver:   r,
		visiting:   map[string]struct{}{},
		visited:    map[string]struct{}{},
		unresolved: map[string]struct{}{},
		maxNodes:   maxNodes,
	}
	walk.collect(targetSym)

	emitSyms := r.interleaveConstBlocks(walk.order)

	result := &Result{Truncated: walk.truncated}
	var code strings.Builder
	seen := map[string]struct{}{}

	for _, sym := range emitSyms {
		snippet, ok := r.bySymbol[sym]
		if !ok {
			continue
		}
		if _, dup := seen[snippet.ID]; dup {
			continue
		}
		part := renderPart(snippet)
		if result.Nodes+1 > maxNodes || result.Bytes+len(part) > maxBytes {
			result.Truncated = true
			walk.unresolved[sym] = struct{}{}
			break
		}
		seen[snippet.ID] = struct{}{}
		code.WriteString(part)
		result.Manifest = append(result.Manifest, ManifestEntry{
			ID:            snippet.ID,
			QualifiedName: sym,
			Kind:          snippet.Kind,
		})
		result.Nodes++
		result.Bytes += len(part)
	}

	result.Code = code.String()
	result.Unresolved = sortedKeys(walk.unresolved)
	return result, nil
}

type walkState struct {
	resolver   *Resolver
	visiting   map[string]struct{}
	visited    map[string]struct{}
	order      []string
	unresolved map[string]struct{}
	maxNodes   int
	truncated  bool
}

// collect runs a depth-first postorder walk so dependencies land before
// dependents. Ties follow the stored sorted dependency order, keeping the
// output byte-identical across runs.
func (w *walkState) collect(sym string) {
	if _, done := w.visited[sym]; done {
		return
	}
	if _, onPath := w.visiting[sym]; onPath {
		return // cycle: the node is already being resolved upstream
	}
	if len(w.order) >= w.maxNodes {
		w.truncated = true
		w.unresolved[sym] = struct{}{}
		return
	}
	rec, ok := w.resolver.bySymbol[sym]
	if !ok {
		w.unresolved[sym] = struct{}{}
		return
	}

	w.visiting[sym] = struct{}{}
	for _, dep := range w.resolver.depsFor(rec) {
		w.collect(dep)
		if len(w.order) >= w.maxNodes {
			break
		}
	}
	delete(w.visiting, sym)
	w.visited[sym] = struct{}{}
	w.order = append(w.order, sym)
}

// depsFor maps a snippet's symbolic dependencies to emission symbols: a
// dependency on a method becomes a dependency on its class, and a method
// snippet always pulls in its own class.
func (r *Resolver) depsFor(rec *models.Snippet) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(sym string) {
		if sym == "" {
			return
		}
		if _, dup := seen[sym]; dup {
			return
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}

	for _, dep := range rec.Dependencies {
		if depRec, ok := r.bySymbol[dep]; ok {
			if cls := r.classSymbolFor(depRec); cls != "" {
				add(cls)
				continue
			}
		}
		add(dep)
	}
	add(r.classSymbolFor(rec))
	return out
}

func (r *Resolver) classSymbolFor(rec *models.Snippet) string {
	if rec.Kind != models.KindMethod || rec.ParentClass == "" {
		return ""
	}
	return rec.Module() + "." + rec.ParentClass
}

// interleaveConstBlocks emits each module's leading constant block before the
// module's first snippet.
func (r *Resolver) interleaveConstBlocks(order []string) []string {
	var out []string
	seenModules := map[string]struct{}{}
	for _, sym := range order {
		rec, ok := r.bySymbol[sym]
		if !ok {
			continue
		}
		module := rec.Module()
		if _, seen := seenModules[module]; !seen {
			seenModules[module] = struct{}{}
			if constRec, ok := r.constByModule[module]; ok {
				out = append(out, constRec.QualifiedName())
			}
		}
		out = append(out, sym)
	}
	return out
}

func renderPart(snippet *models.Snippet) string {
	header := fmt.Sprintf("# --- %s: %s (%s)\n", snippet.Kind, snippet.Module(), snippet.Name)
	return header + strings.TrimRight(snippet.Code, "\n") + "\n\n"
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
