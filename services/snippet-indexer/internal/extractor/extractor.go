package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

const (
	defaultLicense    = "UNKNOWN"
	defaultLicenseURL = "about:blank"
	constBlockName    = "CONST_BLOCK"
)

// Provenance identifies the snapshot a file belongs to. License and
// LicenseURL seed the governance fields of every record; empty values fall
// back to the UNKNOWN defaults.
type Provenance struct {
	Repo       string
	Commit     string
	Path       string // repo-relative, POSIX separators
	License    string
	LicenseURL string
}

// StableID derives the content-addressed snippet id. Identical identifying
// tuples always produce the identical id.
func StableID(repo, commit, path string, kind models.Kind, qualname string, startLine, endLine int) string {
	key := strings.Join([]string{
		repo, commit, path, string(kind), qualname,
		strconv.Itoa(startLine), strconv.Itoa(endLine),
	}, "|")
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// ExtractFile parses one Python file and emits snippet records for its
// top-level functions, classes, methods and leading constant block. A file
// that fails to parse contributes zero records and the parse error.
func ExtractFile(ctx context.Context, content []byte, prov Provenance) ([]*models.Snippet, error) {
	summary, err := ParseModule(ctx, content, prov.Path)
	if err != nil {
		return nil, err
	}

	var records []*models.Snippet

	for _, fn := range summary.Functions {
		records = append(records, functionRecord(prov, fn))
	}
	for _, cls := range summary.Classes {
		for _, m := range cls.Methods {
			records = append(records, functionRecord(prov, m))
		}
		records = append(records, classRecord(prov, cls))
	}
	if cb := summary.ConstBlock; cb != nil {
		records = append(records, constRecord(prov, cb))
	}

	return records, nil
}

func functionRecord(prov Provenance, fn AstFunction) *models.Snippet {
	kind := models.KindFunction
	if fn.IsMethod {
		kind = models.KindMethod
	}

	desc := fn.Docstring
	if desc == "" {
		desc = fn.LeadingComments
	}
	if desc == "" {
		desc = fmt.Sprintf("Extracted %s %s from %s", kind, fn.Qualname, prov.Path)
	}

	rec := newRecord(prov, kind, fn.Qualname, fn.StartLine, fn.EndLine, fn.Code)
	rec.Description = desc
	rec.Inputs = paramNames(fn.Params)
	if fn.Returns != "" {
		rec.Outputs = []string{fn.Returns}
	}
	rec.ParentClass = fn.ParentClass
	return rec
}

func classRecord(prov Provenance, cls AstClass) *models.Snippet {
	desc := cls.Docstring
	if desc == "" {
		desc = cls.LeadingComments
	}
	if desc == "" {
		desc = fmt.Sprintf("Extracted class %s from %s", cls.Qualname, prov.Path)
	}

	rec := newRecord(prov, models.KindClass, cls.Qualname, cls.StartLine, cls.EndLine, cls.Code)
	rec.Description = desc
	return rec
}

func constRecord(prov Provenance, cb *ConstBlock) *models.Snippet {
	rec := newRecord(prov, models.KindConstBlock, constBlockName, cb.StartLine, cb.EndLine, cb.Code)
	rec.Description = "Top-level constants: " + strings.Join(cb.Assignments, ", ")
	return rec
}

func newRecord(prov Provenance, kind models.Kind, qualname string, startLine, endLine int, code string) *models.Snippet {
	license := prov.License
	if license == "" {
		license = defaultLicense
	}
	licenseURL := prov.LicenseURL
	if licenseURL == "" {
		licenseURL = defaultLicenseURL
	}
	return &models.Snippet{
		ID:           StableID(prov.Repo, prov.Commit, prov.Path, kind, qualname, startLine, endLine),
		Repo:         prov.Repo,
		Commit:       prov.Commit,
		Path:         prov.Path,
		Lang:         "python",
		Kind:         kind,
		Name:         qualname,
		Code:         code,
		Categories:   []string{categoryFor(kind)},
		Dependencies: []string{},
		License:      license,
		LicenseURL:   licenseURL,
		CreatedAt:    models.NowISO(),
		SizeBytes:    models.CalcSizeBytes(code),
		LinesOfCode:  models.CalcLinesOfCode(code),
		StartLine:    startLine,
		EndLine:      endLine,
	}
}

func categoryFor(kind models.Kind) string {
	if kind == models.KindConstBlock {
		return "const"
	}
	return string(kind)
}

func paramNames(params []string) []string {
	var names []string
	for _, p := range params {
		name := strings.TrimSpace(strings.SplitN(p, ":", 2)[0])
		name = strings.TrimLeft(name, "*")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
