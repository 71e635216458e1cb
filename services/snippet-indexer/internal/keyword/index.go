// Package keyword implements the inverted index over weighted snippet text
// fields with TF/IDF scoring. An index is immutable once built; builds write
// a complete new index and swap it in atomically.
package keyword

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/G4ertner/kRPC-docs-MCP/services/snippet-indexer/internal/models"
)

const minIDF = 1e-6

type Config struct {
	WeightName        float64  `json:"weight_name"`
	WeightCategories  float64  `json:"weight_categories"`
	WeightInputs      float64  `json:"weight_inputs"`
	WeightDescription float64  `json:"weight_description"`
	WeightCodeHead    float64  `json:"weight_code_head"`
	CodeHeadChars     int      `json:"code_head_chars"`
	Stopwords         []string `json:"stopwords"`
}

func DefaultConfig() Config {
	return Config{
		WeightName:        3.0,
		WeightCategories:  2.0,
		WeightInputs:      1.5,
		WeightDescription: 1.0,
		WeightCodeHead:    0.5,
		CodeHeadChars:     300,
		Stopwords: []string{
			"the", "and", "or", "to", "of", "a", "in", "on", "for", "with", "by",
		},
	}
}

// DocMeta is the per-document metadata kept alongside postings so search can
// filter and preview without touching the snippet store.
type DocMeta struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	Categories  []string `json:"categories"`
	Restricted  bool     `json:"restricted"`
	Description string   `json:"description"`
}

type Index struct {
	Postings map[string]map[string]float64 `json:"vocab"`
	DocFreq  map[string]int                `json:"df"`
	Docs     map[string]DocMeta            `json:"docs"`
	N        int                           `json:"n"`
	Cfg      Config                        `json:"cfg"`
}

type Hit struct {
	ID    string
	Score float64
	Doc   DocMeta
}

type SearchOptions struct {
	K                 int
	UseAnd            bool
	Category          string
	ExcludeRestricted bool
}

// Build creates a full index over the snapshot's snippets. Rebuilt in full on
// every index build; there is no incremental update path.
func Build(snippets []*models.Snippet, cfg Config) *Index {
	idx := &Index{
		Postings: map[string]map[string]float64{},
		DocFreq:  map[string]int{},
		Docs:     map[string]DocMeta{},
		Cfg:      cfg,
	}

	stop := map[string]struct{}{}
	for _, s := range cfg.Stopwords {
		stop[s] = struct{}{}
	}

	for _, rec := range snippets {
		if rec.ID == "" {
			continue
		}
		weighted := map[string]float64{}
		addTokens(weighted, rec.Name, cfg.WeightName, stop)
		for _, c := range rec.Categories {
			addTokens(weighted, c, cfg.WeightCategories, stop)
		}
		for _, inp := range rec.Inputs {
			addTokens(weighted, inp, cfg.WeightInputs, stop)
		}
		addTokens(weighted, rec.Description, cfg.WeightDescription, stop)
		addTokens(weighted, codeHead(rec.Code, cfg.CodeHeadChars), cfg.WeightCodeHead, stop)

		for tok, tf := range weighted {
			bucket, ok := idx.Postings[tok]
			if !ok {
				bucket = map[string]float64{}
				idx.Postings[tok] = bucket
			}
			if _, seen := bucket[rec.ID]; !seen {
				idx.DocFreq[tok]++
			}
			bucket[rec.ID] += tf
		}

		idx.Docs[rec.ID] = DocMeta{
			Name:        rec.Name,
			Path:        rec.Path,
			Categories:  rec.Categories,
			Restricted:  rec.Restricted,
			Description: rec.Description,
		}
	}

	idx.N = len(idx.Docs)
	return idx
}

func addTokens(weighted map[string]float64, text string, weight float64, stop map[string]struct{}) {
	if text == "" || weight == 0 {
		return
	}
	for _, t := range Tokenize(text) {
		if _, skip := stop[t]; skip {
			continue
		}
		weighted[t] += weight
	}
}

func codeHead(code string, chars int) string {
	if len(code) <= chars {
		return code
	}
	return code[:chars]
}

func (idx *Index) idf(token string) float64 {
	v := math.Log(1.0 + float64(idx.N)/(1.0+float64(idx.DocFreq[token])))
	if v < minIDF {
		return minIDF
	}
	return v
}

func (idx *Index) docAllowed(doc DocMeta, opts SearchOptions) bool {
	if opts.ExcludeRestricted && doc.Restricted {
		return false
	}
	if opts.Category != "" {
		found := false
		for _, c := range doc.Categories {
			if c == opts.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Doc returns the stored metadata for a document id.
func (idx *Index) Doc(id string) (DocMeta, bool) {
	doc, ok := idx.Docs[id]
	return doc, ok
}

// Allowed reports whether the document passes the category/restricted
// filters. Unknown ids are never allowed.
func (idx *Index) Allowed(id, category string, excludeRestricted bool) bool {
	doc, ok := idx.Docs[id]
	if !ok {
		return false
	}
	return idx.docAllowed(doc, SearchOptions{Category: category, ExcludeRestricted: excludeRestricted})
}

// Search ranks documents for the query. Ties break on snippet id so result
// order is reproducible for identical inputs.
func (idx *Index) Search(query string, opts SearchOptions) []Hit {
	if opts.K <= 0 {
		opts.K = 10
	}

	stop := map[string]struct{}{}
	for _, s := range idx.Cfg.Stopwords {
		stop[s] = struct{}{}
	}
	var qTokens []string
	for _, t := range Tokenize(query) {
		if _, skip := stop[t]; !skip {
			qTokens = append(qTokens, t)
		}
	}
	if len(qTokens) == 0 {
		return nil
	}

	// candidate ids via OR / AND over postings
	var candidates map[string]struct{}
	for _, t := range qTokens {
		ids := map[string]struct{}{}
		for id := range idx.Postings[t] {
			ids[id] = struct{}{}
		}
		if candidates == nil {
			candidates = ids
			continue
		}
		if opts.UseAnd {
			for id := range candidates {
				if _, ok := ids[id]; !ok {
					delete(candidates, id)
				}
			}
		} else {
			for id := range ids {
				candidates[id] = struct{}{}
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	scores := map[string]float64{}
	for _, t := range qTokens {
		postings, ok := idx.Postings[t]
		if !ok {
			continue
		}
		idf := idx.idf(t)
		for id, tf := range postings {
			if _, ok := candidates[id]; !ok {
				continue
			}
			doc, ok := idx.Docs[id]
			if !ok || !idx.docAllowed(doc, opts) {
				continue
			}
			scores[id] += tf * idf
		}
	}

	hits := make([]Hit, 0, len(scores))
	for id, sc := range scores {
		hits = append(hits, Hit{ID: id, Score: sc, Doc: idx.Docs[id]})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
	if len(hits) > opts.K {
		hits = hits[:opts.K]
	}
	return hits
}

// Save writes the index as JSON via a temp file and rename, so readers only
// ever observe a fully-formed index.
func (idx *Index) Save(path string) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".keyword-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, err
	}
	return &idx, nil
}
