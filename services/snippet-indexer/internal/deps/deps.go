// Package deps performs best-effort static resolution of call sites to
// repository-local qualified names. References that cannot be pinned to a
// local symbol are dropped rather than guessed.
package deps

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/symbols"
)

// FileCalls holds call candidates for one module, keyed by local qualname
// (fn, Class.method, Class). Candidates are fully-qualified dotted names.
type FileCalls struct {
	Module     string
	Candidates map[string]map[string]struct{}
}

type analyzer struct {
	module     string
	content    []byte
	aliases    map[string]string
	localNames map[string]struct{}
	classes    map[string]map[string]struct{} // class -> method names
	out        *FileCalls
}

// Analyze parses one Python file and collects, per top-level definition, the
// set of fully-qualified call candidates. Resolution against the symbol table
// happens later so the edges stay symbolic.
func Analyze(ctx context.Context, content []byte, path string) (*FileCalls, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()

	a := &analyzer{
		module:     models.ModuleFromPath(path),
		content:    content,
		aliases:    map[string]string{},
		localNames: map[string]struct{}{},
		classes:    map[string]map[string]struct{}{},
		out: &FileCalls{
			Module:     models.ModuleFromPath(path),
			Candidates: map[string]map[string]struct{}{},
		},
	}

	a.collectImports(root)
	a.collectLocalNames(root)

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node, _ := unwrap(root.NamedChild(i))
		switch node.Type() {
		case "function_definition":
			name := a.field(node, "name")
			a.scanCalls(node, name, "")
		case "class_definition":
			className := a.field(node, "name")
			body := node.ChildByFieldName("body")
			if body == nil {
				continue
			}
			for j := 0; j < int(body.NamedChildCount()); j++ {
				method, _ := unwrap(body.NamedChild(j))
				if method.Type() != "function_definition" {
					continue
				}
				a.scanCalls(method, className+"."+a.field(method, "name"), className)
			}
		}
	}

	return a.out, nil
}

// Resolve filters candidates against the snapshot symbol table and returns,
// per local qualname, the sorted set of repo-local dependencies. Class
// entries aggregate their methods' sets, minus the class's own members.
func Resolve(fc *FileCalls, table *symbols.Table) map[string][]string {
	resolved := make(map[string][]string, len(fc.Candidates))
	for qualname, cands := range fc.Candidates {
		var deps []string
		for cand := range cands {
			if table.Has(cand) {
				deps = append(deps, cand)
			}
		}
		sort.Strings(deps)
		resolved[qualname] = deps
	}

	// class aggregates
	classMembers := map[string][]string{}
	for qualname := range fc.Candidates {
		if cls, _, ok := strings.Cut(qualname, "."); ok {
			classMembers[cls] = append(classMembers[cls], qualname)
		}
	}
	for cls, members := range classMembers {
		selfPrefix := fc.Module + "." + cls
		set := map[string]struct{}{}
		for _, m := range members {
			for _, d := range resolved[m] {
				if d == selfPrefix || strings.HasPrefix(d, selfPrefix+".") {
					continue
				}
				set[d] = struct{}{}
			}
		}
		agg := make([]string, 0, len(set))
		for d := range set {
			agg = append(agg, d)
		}
		sort.Strings(agg)
		resolved[cls] = agg
	}

	return resolved
}

// Attach writes resolved dependency sets onto the file's snippet records.
func Attach(records []*models.Snippet, resolved map[string][]string) {
	for _, rec := range records {
		if deps, ok := resolved[rec.Name]; ok && deps != nil {
			rec.Dependencies = deps
		}
	}
}

func (a *analyzer) field(node *sitter.Node, name string) string {
	child := node.ChildByFieldName(name)
	if child == nil {
		return ""
	}
	return child.Content(a.content)
}

func (a *analyzer) collectImports(root *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		switch node.Type() {
		case "import_statement":
			for j := 0; j < int(node.NamedChildCount()); j++ {
				child := node.NamedChild(j)
				switch child.Type() {
				case "dotted_name":
					full := child.Content(a.content)
					root := strings.SplitN(full, ".", 2)[0]
					a.aliases[root] = root
					a.aliases[full] = full
				case "aliased_import":
					name := a.field(child, "name")
					alias := a.field(child, "alias")
					if alias != "" && name != "" {
						a.aliases[alias] = name
					}
				}
			}
		case "import_from_statement":
			moduleNode := node.ChildByFieldName("module_name")
			if moduleNode == nil {
				continue
			}
			base := strings.TrimLeft(moduleNode.Content(a.content), ".")
			for j := 0; j < int(node.NamedChildCount()); j++ {
				child := node.NamedChild(j)
				if child.StartByte() == moduleNode.StartByte() {
					continue
				}
				switch child.Type() {
				case "dotted_name":
					name := child.Content(a.content)
					a.aliases[name] = joinDotted(base, name)
				case "aliased_import":
					name := a.field(child, "name")
					alias := a.field(child, "alias")
					if alias == "" {
						alias = name
					}
					if name != "" {
						a.aliases[alias] = joinDotted(base, name)
					}
				}
			}
		}
	}
}

func (a *analyzer) collectLocalNames(root *sitter.Node) {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node, _ := unwrap(root.NamedChild(i))
		switch node.Type() {
		case "function_definition":
			a.localNames[a.field(node, "name")] = struct{}{}
		case "class_definition":
			className := a.field(node, "name")
			a.localNames[className] = struct{}{}
			methods := map[string]struct{}{}
			if body := node.ChildByFieldName("body"); body != nil {
				for j := 0; j < int(body.NamedChildCount()); j++ {
					method, _ := unwrap(body.NamedChild(j))
					if method.Type() == "function_definition" {
						methods[a.field(method, "name")] = struct{}{}
					}
				}
			}
			a.classes[className] = methods
		}
	}
}

// scanCalls walks the whole definition body, nested closures included, so an
// inner def's calls are attributed to the outer snippet.
func (a *analyzer) scanCalls(def *sitter.Node, qualname, className string) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "call" {
			if target := n.ChildByFieldName("function"); target != nil {
				if cand := a.resolveTarget(target, className); cand != "" {
					a.add(qualname, cand)
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(def)
	if _, ok := a.out.Candidates[qualname]; !ok {
		a.out.Candidates[qualname] = map[string]struct{}{}
	}
}

// resolveTarget maps one call target to a fully-qualified dotted candidate,
// or "" when the reference cannot be tied to anything local.
func (a *analyzer) resolveTarget(target *sitter.Node, className string) string {
	switch target.Type() {
	case "identifier":
		name := target.Content(a.content)
		if full, ok := a.aliases[name]; ok {
			return full
		}
		return a.module + "." + name
	case "attribute":
		dotted := dottedFromAttribute(target, a.content)
		if dotted == "" {
			return ""
		}
		root, rest, _ := strings.Cut(dotted, ".")
		switch {
		case root == "self":
			if className == "" || rest == "" {
				return ""
			}
			method := strings.SplitN(rest, ".", 2)[0]
			if _, ok := a.classes[className][method]; !ok {
				return ""
			}
			return a.module + "." + className + "." + rest
		default:
			if full, ok := a.aliases[root]; ok {
				return joinDotted(full, rest)
			}
			if _, ok := a.localNames[root]; ok {
				return a.module + "." + dotted
			}
			return dotted
		}
	}
	return ""
}

func (a *analyzer) add(qualname, cand string) {
	set, ok := a.out.Candidates[qualname]
	if !ok {
		set = map[string]struct{}{}
		a.out.Candidates[qualname] = set
	}
	set[cand] = struct{}{}
}

func dottedFromAttribute(node *sitter.Node, content []byte) string {
	var parts []string
	cur := node
	for cur != nil && cur.Type() == "attribute" {
		attr := cur.ChildByFieldName("attribute")
		if attr == nil {
			return ""
		}
		parts = append(parts, attr.Content(content))
		cur = cur.ChildByFieldName("object")
	}
	if cur == nil || cur.Type() != "identifier" {
		return ""
	}
	parts = append(parts, cur.Content(content))
	for l, r := 0, len(parts)-1; l < r; l, r = l+1, r-1 {
		parts[l], parts[r] = parts[r], parts[l]
	}
	return strings.Join(parts, ".")
}

func joinDotted(base, rest string) string {
	if rest == "" {
		return base
	}
	if base == "" {
		return rest
	}
	return base + "." + rest
}

func unwrap(node *sitter.Node) (*sitter.Node, bool) {
	if node.Type() == "decorated_definition" {
		if def := node.ChildByFieldName("definition"); def != nil {
			return def, true
		}
	}
	return node, false
}
