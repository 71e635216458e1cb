package models

import (
	"strings"
	"time"
)

type Kind string

const (
	KindFunction   Kind = "function"
	KindMethod     Kind = "method"
	KindClass      Kind = "class"
	KindConstBlock Kind = "const-block"
)

// Snippet is the atomic unit of the library: one extracted function, method,
// class or leading constant block, with its provenance and enrichment fields.
// The json field set is the compatibility contract with storage adapters and
// downstream tools.
type Snippet struct {
	ID           string   `json:"id"`
	Repo         string   `json:"repo"`
	Commit       string   `json:"commit"`
	Path         string   `json:"path"`
	Lang         string   `json:"lang"`
	Kind         Kind     `json:"kind"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Code         string   `json:"code"`
	Categories   []string `json:"categories"`
	Dependencies []string `json:"dependencies"`
	License      string   `json:"license"`
	LicenseURL   string   `json:"license_url"`
	CreatedAt    string   `json:"created_at"`

	Restricted  bool     `json:"restricted,omitempty"`
	Inputs      []string `json:"inputs,omitempty"`
	Outputs     []string `json:"outputs,omitempty"`
	WhenToUse   string   `json:"when_to_use,omitempty"`
	SizeBytes   int      `json:"size_bytes,omitempty"`
	LinesOfCode int      `json:"lines_of_code,omitempty"`

	// Source span, 1-indexed, half-open: [StartLine, EndLine).
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`

	// ParentClass is set on method snippets only.
	ParentClass string `json:"parent_class,omitempty"`

	// Embedding is owned by the retrieval index for the lifetime of a build.
	Embedding []float32 `json:"embedding,omitempty"`
}

// Module converts the repo-relative path into a dotted module name,
// e.g. "pkg/nav/helper.py" -> "pkg.nav.helper".
func (s *Snippet) Module() string {
	return ModuleFromPath(s.Path)
}

// QualifiedName is the snapshot-unique dotted symbol for this snippet,
// e.g. "pkg.nav.helper.NavHelper.circ_dv".
func (s *Snippet) QualifiedName() string {
	return s.Module() + "." + s.Name
}

func ModuleFromPath(path string) string {
	p := strings.ReplaceAll(path, "\\", "/")
	if strings.HasSuffix(p, "/__init__.py") {
		p = strings.TrimSuffix(p, "/__init__.py")
	} else {
		p = strings.TrimSuffix(p, ".py")
	}
	return strings.ReplaceAll(p, "/", ".")
}

func NowISO() string {
	return time.Now().UTC().Truncate(time.Second).Format("2006-01-02T15:04:05Z")
}

func CalcSizeBytes(code string) int {
	return len(code)
}

func CalcLinesOfCode(code string) int {
	if code == "" {
		return 0
	}
	n := strings.Count(code, "\n")
	if !strings.HasSuffix(code, "\n") {
		n++
	}
	return n
}
