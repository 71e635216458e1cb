package extractor

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// AstFunction is one top-level function or class method.
type AstFunction struct {
	Name            string
	Qualname        string
	StartLine       int
	EndLine         int
	IsAsync         bool
	Decorators      []string
	Params          []string
	Returns         string
	Docstring       string
	LeadingComments string
	IsMethod        bool
	ParentClass     string
	Code            string
}

type AstClass struct {
	Name            string
	Qualname        string
	StartLine       int
	EndLine         int
	Bases           []string
	Decorators      []string
	Docstring       string
	LeadingComments string
	Methods         []AstFunction
	Code            string
}

// ConstBlock is the single leading run of UPPER_CASE assignments before the
// first def/class in a module.
type ConstBlock struct {
	StartLine   int
	EndLine     int
	Assignments []string
	Code        string
}

type ModuleSummary struct {
	Path       string
	Docstring  string
	Functions  []AstFunction
	Classes    []AstClass
	ConstBlock *ConstBlock
}

// ParseModule parses one Python source file into a ModuleSummary. Only
// top-level definitions are walked; nested defs stay inside their parent's
// span and are never summarized separately.
func ParseModule(ctx context.Context, content []byte, path string) (*ModuleSummary, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax error in %s", path)
	}

	lines := strings.SplitAfter(string(content), "\n")
	summary := &ModuleSummary{
		Path:      path,
		Docstring: moduleDocstring(root, content),
	}

	constDone := false
	var constBlock *ConstBlock

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		defNode, decorators := unwrapDecorated(node, content)

		switch defNode.Type() {
		case "function_definition":
			fn := parseFunction(defNode, decorators, content, lines, "", false)
			summary.Functions = append(summary.Functions, fn)
			constDone = true
		case "class_definition":
			cls := parseClass(defNode, decorators, content, lines)
			summary.Classes = append(summary.Classes, cls)
			constDone = true
		case "expression_statement":
			if constDone {
				continue
			}
			names := upperAssignTargets(defNode, content)
			if len(names) == 0 {
				if constBlock != nil {
					constDone = true
				}
				continue
			}
			start, end := nodeSpan(defNode)
			if constBlock == nil {
				constBlock = &ConstBlock{StartLine: start, EndLine: end}
			} else {
				constBlock.EndLine = end
			}
			constBlock.Assignments = append(constBlock.Assignments, names...)
		case "comment":
		default:
			// any other statement ends a started constant run
			if constBlock != nil {
				constDone = true
			}
		}
	}

	if constBlock != nil {
		constBlock.Code = sliceLines(lines, constBlock.StartLine, constBlock.EndLine)
		summary.ConstBlock = constBlock
	}

	return summary, nil
}

// nodeSpan returns the 1-indexed half-open line span of a node.
func nodeSpan(n *sitter.Node) (int, int) {
	start := int(n.StartPoint().Row) + 1
	end := int(n.EndPoint().Row) + 2
	if n.EndPoint().Column == 0 {
		end = int(n.EndPoint().Row) + 1
	}
	if end <= start {
		end = start + 1
	}
	return start, end
}

func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end-1 > len(lines) {
		end = len(lines) + 1
	}
	if start > len(lines) || end <= start {
		return ""
	}
	return strings.Join(lines[start-1:end-1], "")
}

func unwrapDecorated(node *sitter.Node, content []byte) (*sitter.Node, []string) {
	if node.Type() != "decorated_definition" {
		return node, nil
	}
	var decorators []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "decorator" {
			decorators = append(decorators, strings.TrimPrefix(child.Content(content), "@"))
		}
	}
	if def := node.ChildByFieldName("definition"); def != nil {
		return def, decorators
	}
	return node, decorators
}

func parseFunction(node *sitter.Node, decorators []string, content []byte, lines []string, parentClass string, isMethod bool) AstFunction {
	name := fieldContent(node, "name", content)
	qualname := name
	if isMethod {
		qualname = parentClass + "." + name
	}
	start, end := nodeSpan(node)

	fn := AstFunction{
		Name:            name,
		Qualname:        qualname,
		StartLine:       start,
		EndLine:         end,
		IsAsync:         strings.HasPrefix(node.Content(content), "async "),
		Decorators:      decorators,
		Params:          paramList(node.ChildByFieldName("parameters"), content),
		Returns:         fieldContent(node, "return_type", content),
		Docstring:       bodyDocstring(node, content),
		LeadingComments: leadingCommentsAbove(lines, start),
		IsMethod:        isMethod,
		ParentClass:     parentClass,
		Code:            sliceLines(lines, start, end),
	}
	return fn
}

func parseClass(node *sitter.Node, decorators []string, content []byte, lines []string) AstClass {
	name := fieldContent(node, "name", content)
	start, end := nodeSpan(node)

	cls := AstClass{
		Name:            name,
		Qualname:        name,
		StartLine:       start,
		EndLine:         end,
		Decorators:      decorators,
		Docstring:       bodyDocstring(node, content),
		LeadingComments: leadingCommentsAbove(lines, start),
		Code:            sliceLines(lines, start, end),
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			cls.Bases = append(cls.Bases, supers.NamedChild(i).Content(content))
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		defNode, methodDecorators := unwrapDecorated(child, content)
		if defNode.Type() != "function_definition" {
			continue
		}
		cls.Methods = append(cls.Methods, parseFunction(defNode, methodDecorators, content, lines, name, true))
	}
	return cls
}

func fieldContent(node *sitter.Node, field string, content []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Content(content)
}

func paramList(params *sitter.Node, content []byte) []string {
	if params == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		switch p.Type() {
		case "identifier":
			out = append(out, p.Content(content))
		case "typed_parameter", "typed_default_parameter", "default_parameter":
			if name := p.ChildByFieldName("name"); name != nil {
				if typ := p.ChildByFieldName("type"); typ != nil {
					out = append(out, name.Content(content)+": "+typ.Content(content))
				} else {
					out = append(out, name.Content(content))
				}
			} else if p.NamedChildCount() > 0 {
				out = append(out, p.NamedChild(0).Content(content))
			}
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, p.Content(content))
		}
	}
	return out
}

// bodyDocstring extracts the docstring from a def/class body, without quotes.
func bodyDocstring(node *sitter.Node, content []byte) string {
	body := node.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return stripStringLiteral(str.Content(content))
}

func moduleDocstring(root *sitter.Node, content []byte) string {
	if root.NamedChildCount() == 0 {
		return ""
	}
	first := root.NamedChild(0)
	if first.Type() != "expression_statement" || first.NamedChildCount() == 0 {
		return ""
	}
	str := first.NamedChild(0)
	if str.Type() != "string" {
		return ""
	}
	return stripStringLiteral(str.Content(content))
}

func stripStringLiteral(s string) string {
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return strings.TrimSpace(s[len(q) : len(s)-len(q)])
		}
	}
	return strings.TrimSpace(s)
}

// upperAssignTargets returns UPPER_CASE identifiers assigned by a top-level
// expression statement, or nil if it is not a constant assignment.
func upperAssignTargets(stmt *sitter.Node, content []byte) []string {
	if stmt.NamedChildCount() == 0 {
		return nil
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" {
		return nil
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return nil
	}
	name := left.Content(content)
	if !isUpperName(name) {
		return nil
	}
	return []string{name}
}

func isUpperName(name string) bool {
	hasLetter := false
	for _, r := range name {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// leadingCommentsAbove gathers contiguous comment lines directly above a
// definition, allowing at most one blank line inside the run.
func leadingCommentsAbove(lines []string, startLine int) string {
	i := startLine - 2
	if i < 0 {
		return ""
	}
	var collected []string
	blanks := 0
	for i >= 0 {
		s := strings.TrimRight(lines[i], "\n")
		trimmed := strings.TrimSpace(s)
		if strings.HasPrefix(trimmed, "#") {
			collected = append(collected, s)
			i--
			continue
		}
		if trimmed == "" {
			blanks++
			if blanks <= 1 {
				collected = append(collected, s)
				i--
				continue
			}
		}
		break
	}
	for len(collected) > 0 && strings.TrimSpace(collected[0]) == "" {
		collected = collected[1:]
	}
	for len(collected) > 0 && strings.TrimSpace(collected[len(collected)-1]) == "" {
		collected = collected[:len(collected)-1]
	}
	if len(collected) == 0 {
		return ""
	}
	// collected is bottom-up
	for l, r := 0, len(collected)-1; l < r; l, r = l+1, r-1 {
		collected[l], collected[r] = collected[r], collected[l]
	}
	return strings.Join(collected, "\n")
}
